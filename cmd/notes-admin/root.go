package main

import (
	"github.com/spf13/cobra"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/bootstrap"
)

var app *bootstrap.AdminApp

var newApp = bootstrap.NewAdminApp

var rootCmd = &cobra.Command{
	Use:           "notes-admin",
	Short:         "Operator tooling for the secure-notes service",
	Long:          `notes-admin manages users and notes directly in the database and checks bearer tokens against the configured public key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal("notes-admin", err)
	}
}
