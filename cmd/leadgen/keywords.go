package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// keywordsShown is how many suggestions the keywords command prints.
const keywordsShown = 20

func newKeywordsCmd(e *env) *cobra.Command {
	var (
		niche         string
		maxDifficulty int
	)

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Research low-competition keywords for a niche",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.app()
			if err != nil {
				return err
			}
			researcher, err := a.Keywords()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("max-difficulty") {
				maxDifficulty = a.Config.MaxDifficulty
			}
			keywords, err := researcher.ResearchNiche(cmd.Context(), niche, maxDifficulty)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(keywords) == 0 {
				fmt.Fprintf(out, "No keywords at or below difficulty %d for %q\n", maxDifficulty, niche)
				return nil
			}
			if len(keywords) > keywordsShown {
				keywords = keywords[:keywordsShown]
			}
			for _, k := range keywords {
				fmt.Fprintf(out, "[%2d] %s (%d searches/mo)\n", k.KeywordDifficulty, k.Keyword, k.SearchVolume)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "target niche")
	cmd.Flags().IntVar(&maxDifficulty, "max-difficulty", 0, "highest keyword difficulty kept (default KEYWORD_MAX_DIFFICULTY)")
	_ = cmd.MarkFlagRequired("niche")

	return cmd
}
