package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubscribeCmd(e *env) *cobra.Command {
	var (
		formID    string
		email     string
		firstName string
	)

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Add a subscriber to a ConvertKit form",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.app()
			if err != nil {
				return err
			}
			client, err := a.Email()
			if err != nil {
				return err
			}

			sub, err := client.AddSubscriberToForm(cmd.Context(), formID, email, firstName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subscribed: %s (%s)\n", sub.Subscriber.EmailAddress, sub.State)
			return nil
		},
	}

	cmd.Flags().StringVar(&formID, "form", "", "ConvertKit form id")
	cmd.Flags().StringVar(&email, "email", "", "subscriber email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "subscriber first name")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
