package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and manage dialog sessions",
	}

	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionResetCmd())
	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the stored dialog state for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			ctx := context.Background()
			store, closeStore := buildStore(ctx, cfg, log)
			defer closeStore()

			state, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if state == nil {
				fmt.Println("no stored state for session", args[0])
				return nil
			}

			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newSessionResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <session-id>",
		Short: "Delete the stored dialog state for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			ctx := context.Background()
			store, closeStore := buildStore(ctx, cfg, log)
			defer closeStore()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("session reset:", args[0])
			return nil
		},
	}
}
