package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	userdomain "github.com/AlibekovAA/secure-notes/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/secure-notes/backend/internal/user/repository"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return createUser(cmd.Context(), cmd.OutOrStdout(), app.UserRepo, args[0])
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get <username|id>",
	Short: "Show a user by username or numeric id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getUser(cmd.Context(), cmd.OutOrStdout(), app.UserRepo, args[0])
	},
}

func createUser(ctx context.Context, out io.Writer, users userrepo.Repository, username string) error {
	if err := userdomain.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username %q: %w", username, err)
	}

	user, err := users.Create(ctx, username)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created user %s with id %d\n", user.Username, user.ID)
	return nil
}

func getUser(ctx context.Context, out io.Writer, users userrepo.Repository, ref string) error {
	var (
		user userdomain.User
		err  error
	)
	if id, parseErr := strconv.ParseInt(ref, 10, 64); parseErr == nil {
		user, err = users.FindByID(ctx, id)
	} else {
		user, err = users.FindByUsername(ctx, ref)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "id: %d\nusername: %s\ncreated: %s\n", user.ID, user.Username, user.CreatedAt.UTC().Format(time.RFC3339))
	return nil
}

func init() {
	userCmd.AddCommand(userCreateCmd, userGetCmd)
	rootCmd.AddCommand(userCmd)
}
