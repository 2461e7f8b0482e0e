package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
)

func newTweetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tweets [count]",
		Short: "List recent tweets on the configured account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 5
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("count must be a positive integer, got %q", args[0])
				}
				count = n
			}

			tw, err := newApp().twitter()
			if err != nil {
				return err
			}
			tweets, err := tw.RecentTweets(cmd.Context(), count)
			if err != nil {
				return err
			}

			color.Cyan("%d recent tweet(s):", len(tweets))
			for _, tweet := range tweets {
				fmt.Fprintf(cmd.OutOrStdout(), " %s  %s\n", tweet.ID, platforms.TruncateLogical(tweet.Text, 80))
			}
			return nil
		},
	}
	cmd.AddCommand(newTweetsDeleteCmd())
	return cmd
}

func newTweetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tweet by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw, err := newApp().twitter()
			if err != nil {
				return err
			}
			if err := tw.DeleteTweet(cmd.Context(), args[0]); err != nil {
				return err
			}
			color.Yellow("Deleted tweet %s", args[0])
			return nil
		},
	}
}

func (a *app) twitter() (*platforms.Twitter, error) {
	if a.cfg.Twitter == nil {
		return nil, errors.New("twitter is not configured")
	}
	return platforms.NewTwitter(*a.cfg.Twitter, a.logger), nil
}
