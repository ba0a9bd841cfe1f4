package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which integrations are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Leadgen system: OK")
			fmt.Fprintf(out, "  %-12s %s\n", "Backend:", cfg.Backend)
			for _, in := range cfg.Integrations() {
				state := "not set"
				if in.Configured {
					state = "configured"
				}
				fmt.Fprintf(out, "  %-12s %s\n", in.Name+":", state)
			}
			return nil
		},
	}
}
