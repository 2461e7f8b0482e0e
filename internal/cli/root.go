// Package cli wires the blogposter commands: content generation, queue
// inspection, one-shot posting and the two long-running schedulers.
package cli

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	appcfg "github.com/cruizviquez/multi-platform-blog-poster/internal/config"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/dispatch"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/queue"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/config"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/llm"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/logging"
)

var (
	queueFile   string
	historyFile string
	verbose     bool
)

// NewRootCmd returns the blogposter root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blogposter",
		Short:         "Generate and cross-post AI/ML content",
		Long:          "blogposter generates short AI/ML posts with an LLM, queues them, and dispatches the queue across the configured social platforms.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&queueFile, "queue", "", "queue file (default $QUEUE_FILE or post_queue.json)")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history", "", "history file (default $HISTORY_FILE or posted_content.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newThreadCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newPostCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newTweetsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// app bundles the wired collaborators the subcommands share. Anything that
// talks to the completion service is built on demand, so queue-only commands
// run without LLM credentials.
type app struct {
	cfg     appcfg.Config
	logger  *logrus.Logger
	queue   *queue.Store
	history *content.HistoryStore
}

func newApp() *app {
	logger := logging.NewLoggerWithService("blogposter")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	config.LoadEnv(logger)

	cfg := appcfg.Load()
	if queueFile != "" {
		cfg.QueueFile = queueFile
	}
	if historyFile != "" {
		cfg.HistoryFile = historyFile
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		queue:   queue.NewStore(cfg.QueueFile, logger),
		history: content.NewHistoryStore(cfg.HistoryFile, logger),
	}
}

func (a *app) completer() (llm.Completer, error) {
	if a.cfg.LLM.APIKey == "" {
		return nil, errors.New("GROQ_API_KEY is required for content generation")
	}
	return llm.NewClient(a.cfg.LLM), nil
}

func (a *app) generator() (*content.Generator, error) {
	completer, err := a.completer()
	if err != nil {
		return nil, err
	}
	return content.NewGenerator(completer, a.history, a.logger), nil
}

func (a *app) expander() (*platforms.Expander, error) {
	completer, err := a.completer()
	if err != nil {
		return nil, err
	}
	return platforms.NewExpander(completer, a.logger), nil
}

// coordinator builds the dispatch coordinator over the configured adapters.
func (a *app) coordinator() (*dispatch.Coordinator, error) {
	expander, err := a.expander()
	if err != nil {
		return nil, err
	}
	adapters, err := a.cfg.Adapters(expander, a.logger)
	if err != nil {
		return nil, err
	}
	return dispatch.NewCoordinator(adapters, a.queue, a.cfg.PostLogFile, a.logger), nil
}
