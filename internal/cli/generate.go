package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [count]",
		Short: "Generate posts and append them to the queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("count must be a positive integer, got %q", args[0])
				}
				count = n
			}

			a := newApp()
			generator, err := a.generator()
			if err != nil {
				return err
			}

			var records []content.Record
			for i := 0; i < count; i++ {
				rec, err := generator.Generate(cmd.Context(), "", "")
				if errors.Is(err, content.ErrNoUniqueContent) {
					color.Yellow("Skipped one post: no unique content after retries")
					continue
				}
				if err != nil {
					return err
				}
				records = append(records, rec)
			}

			if len(records) == 0 {
				return errors.New("no posts generated")
			}
			if err := a.queue.Append(records); err != nil {
				return err
			}

			color.Green("Queued %d post(s)", len(records))
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), " - [%s/%s] %s\n", rec.Type, rec.Topic, rec.Content)
			}
			return nil
		},
	}
}

func newWeekCmd() *cobra.Command {
	var perDay int
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Generate a week of daily batches into the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			generator, err := a.generator()
			if err != nil {
				return err
			}
			if perDay <= 0 {
				perDay = a.cfg.PostsPerDay
			}

			total := 0
			for day := 0; day < 7; day++ {
				batch := generator.GenerateDailyBatch(cmd.Context(), perDay)
				if len(batch) == 0 {
					color.Yellow("Day %d produced no posts", day+1)
					continue
				}
				if err := a.queue.Append(batch); err != nil {
					return err
				}
				total += len(batch)
				fmt.Fprintf(cmd.OutOrStdout(), "Day %d: %d post(s)\n", day+1, len(batch))
			}

			color.Green("Queued %d post(s) for the week", total)
			return nil
		},
	}
	cmd.Flags().IntVar(&perDay, "per-day", 0, "posts per day (default $POSTS_PER_DAY)")
	return cmd
}

func newThreadCmd() *cobra.Command {
	var parts int
	cmd := &cobra.Command{
		Use:   "thread [topic]",
		Short: "Generate a multi-part thread and append it to the queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := ""
			if len(args) == 1 {
				topic = args[0]
			}

			a := newApp()
			generator, err := a.generator()
			if err != nil {
				return err
			}
			records, err := generator.GenerateThread(cmd.Context(), topic, parts)
			if err != nil {
				return err
			}
			if err := a.queue.Append(records); err != nil {
				return err
			}

			color.Green("Queued a %d-part thread", len(records))
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), " %s: %s\n", rec.ThreadPosition, rec.Content)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&parts, "parts", 3, "number of thread parts")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Generate one post without queueing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			generator, err := a.generator()
			if err != nil {
				return err
			}
			rec, err := generator.Generate(cmd.Context(), "", "")
			if err != nil {
				return err
			}

			color.Cyan("Preview (%s / %s, %d chars):", rec.Type, rec.Topic, len([]rune(rec.Content)))
			fmt.Fprintln(cmd.OutOrStdout(), rec.Content)
			return nil
		},
	}
}
