package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTopicsCmd(e *env) *cobra.Command {
	var niche string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List trending headlines for a niche as topic ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.app()
			if err != nil {
				return err
			}

			topics, err := a.Topics.FindTopics(cmd.Context(), niche)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(topics) == 0 {
				fmt.Fprintf(out, "No topics found for %q\n", niche)
				return nil
			}
			for _, t := range topics {
				fmt.Fprintf(out, "- %s\n", t.Title)
				if !t.PublishedAt.IsZero() {
					fmt.Fprintf(out, "  %s", t.PublishedAt.Format(time.DateOnly))
					if t.Source != "" {
						fmt.Fprintf(out, " · %s", t.Source)
					}
					fmt.Fprintln(out)
				}
				if t.URL != "" {
					fmt.Fprintf(out, "  %s\n", t.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "target niche")
	_ = cmd.MarkFlagRequired("niche")

	return cmd
}
