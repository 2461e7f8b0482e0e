package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue length and the next posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			records := a.queue.Load()

			color.Cyan("Queue: %d post(s) in %s", len(records), a.cfg.QueueFile)
			for i, rec := range records {
				if i >= 3 {
					fmt.Fprintf(cmd.OutOrStdout(), " ... and %d more\n", len(records)-3)
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), " %d. [%s] %s\n", i+1, rec.Type, platforms.TruncateLogical(rec.Content, 80))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "History: %d post(s) recorded\n", a.history.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "Platforms: %v\n", a.cfg.ConfiguredPlatforms())
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the post queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			dropped := a.queue.Len()
			if err := a.queue.Clear(); err != nil {
				return err
			}
			color.Yellow("Cleared %d post(s) from the queue", dropped)
			return nil
		},
	}
}
