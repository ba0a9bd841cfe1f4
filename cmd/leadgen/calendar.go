package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"leadgen/internal/observability/logging"
	"leadgen/internal/repository"
	"leadgen/internal/usecase/calendar"
)

func newCalendarCmd(e *env) *cobra.Command {
	var (
		start        string
		postsPerWeek int
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Plan a four-week content calendar from keyword research",
		RunE: func(cmd *cobra.Command, args []string) error {
			from := time.Now().UTC()
			if start != "" {
				t, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
				}
				from = t
			}
			if postsPerWeek <= 0 {
				return fmt.Errorf("--posts-per-week must be positive, got %d", postsPerWeek)
			}

			a, err := e.app()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			var repo repository.CalendarRepository
			if save {
				if repo, err = a.Calendar(cmd.Context()); err != nil {
					return err
				}
			}
			planner, err := a.Planner(repo)
			if err != nil {
				return err
			}

			plan, err := planner.Plan(cmd.Context(), from, postsPerWeek)
			out := cmd.OutOrStdout()
			if plan != nil {
				niches := make([]string, 0, len(plan.Failed))
				for n := range plan.Failed {
					niches = append(niches, n)
				}
				sort.Strings(niches)
				for _, n := range niches {
					fmt.Fprintf(out, "Skipped %s: %s\n", n, logging.SanitizeError(plan.Failed[n]))
				}
			}
			if err != nil {
				return err
			}

			for _, entry := range plan.Entries {
				fmt.Fprintf(out, "%s  %-12s %-10s %s (%d searches/mo)\n",
					entry.PublishDate.Format(time.DateOnly), entry.Niche, entry.PostType,
					entry.Keyword, entry.SearchVolume)
			}
			fmt.Fprintf(out, "%d entries\n", len(plan.Entries))

			if save {
				n, err := planner.Save(cmd.Context(), plan)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved %d new entries\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first publish date, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&postsPerWeek, "posts-per-week", calendar.DefaultPostsPerWeek, "posts scheduled per week")
	cmd.Flags().BoolVar(&save, "save", false, "store the entries for the worker")

	return cmd
}
