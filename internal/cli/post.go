package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/scheduler"
)

func newPostCmd() *cobra.Command {
	var platformNames []string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post the front of the queue once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			if len(a.cfg.ConfiguredPlatforms()) == 0 {
				return errors.New("no platforms configured")
			}

			if len(platformNames) > 0 {
				records := a.queue.Load()
				if len(records) == 0 {
					color.Yellow("Queue is empty")
					return nil
				}
				// Subset dispatch never removes the record; it is a manual
				// re-post tool, not a queue cycle.
				results := coord.DispatchToSubset(cmd.Context(), records[0], platformNames)
				printResults(cmd, results)
				return nil
			}

			outcome, err := coord.PostNext(cmd.Context())
			if err != nil {
				return err
			}
			if outcome == nil {
				color.Yellow("Queue is empty")
				return nil
			}

			printResults(cmd, outcome.Results)
			if outcome.Posted {
				color.Green("Posted and removed from queue (%d left)", a.queue.Len())
			} else {
				color.Yellow("Kept in queue for retry")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&platformNames, "platforms", nil, "restrict dispatch to these platforms (record stays queued)")
	return cmd
}

func printResults(cmd *cobra.Command, results map[string]platforms.Result) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := results[name]
		if result.Success {
			color.Green(" ✓ %s %s", name, result.URL)
		} else {
			color.Red(" ✗ %s: %s", name, result.Error)
		}
	}
}

func newRunCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Post from the queue on a fixed interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.cfg.Interval
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Posting every %s; Ctrl-C to stop\n", interval)
			driver := scheduler.NewIntervalDriver(coord, interval, a.logger)
			return driver.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between posts (default $POST_INTERVAL)")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily schedule: generate each morning, post at fixed times",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			generator, err := a.generator()
			if err != nil {
				return err
			}

			generate := func(ctx context.Context) error {
				batch := generator.GenerateDailyBatch(ctx, a.cfg.PostsPerDay)
				if len(batch) == 0 {
					return errors.New("daily batch produced no posts")
				}
				return a.queue.Append(batch)
			}

			sched := scheduler.DefaultDailySchedule()
			fmt.Fprintf(cmd.OutOrStdout(), "Generating at %s, posting at %v; Ctrl-C to stop\n", sched.GenerateAt, sched.PostTimes)
			driver := scheduler.NewDailyDriver(coord, generate, sched, a.logger)
			return driver.Run(cmd.Context())
		},
	}
}
