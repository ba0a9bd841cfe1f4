package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"leadgen/internal/domain/entity"
	"leadgen/internal/observability/logging"
)

func newGenerateCmd(e *env) *cobra.Command {
	var (
		niche      string
		topic      string
		distribute bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a post and publish it to the Hugo blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.app()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			out := cmd.OutOrStdout()
			if !distribute {
				result, err := a.Pipeline.GenerateAndPublish(cmd.Context(), niche, topic)
				if err != nil {
					return err
				}
				printResult(out, result)
				return nil
			}

			result, report, err := a.Pipeline.GenerateAndDistribute(cmd.Context(), niche, topic)
			if err != nil {
				return err
			}
			printResult(out, result)
			printReport(out, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "target niche, e.g. restaurants")
	cmd.Flags().StringVar(&topic, "topic", "", "post topic")
	cmd.Flags().BoolVar(&distribute, "distribute", false, "cross-post to every configured platform")
	_ = cmd.MarkFlagRequired("niche")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func printResult(out io.Writer, r *entity.PipelineResult) {
	fmt.Fprintf(out, "Published: %s\n", r.Title)
	fmt.Fprintf(out, "  Path: %s\n", r.LocalPath)
}

func printReport(out io.Writer, report *entity.DistributionReport) {
	if report == nil || len(report.Outcomes) == 0 {
		fmt.Fprintln(out, "  No distributors configured")
		return
	}
	for _, o := range report.Outcomes {
		if !o.OK() {
			fmt.Fprintf(out, "  %s: failed (%s)\n", o.Target, logging.SanitizeError(o.Err))
			continue
		}
		if o.URL != "" {
			fmt.Fprintf(out, "  %s: %s\n", o.Target, o.URL)
		} else {
			fmt.Fprintf(out, "  %s: ok\n", o.Target)
		}
	}
}
