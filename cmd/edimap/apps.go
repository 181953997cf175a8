package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAppsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage applications allowed to use the message API",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Register an application and print its API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			app, key, err := st.CreateApplication(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id:      %s\nname:    %s\napi key: %s\n", app.ID, app.Name, key)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate [id]",
		Short: "Revoke an application's API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeactivateApplication(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to deactivate application: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s\n", args[0])
			return nil
		},
	})

	return cmd
}
