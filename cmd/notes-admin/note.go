package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	noteservice "github.com/AlibekovAA/secure-notes/backend/internal/note/service"
	userrepo "github.com/AlibekovAA/secure-notes/backend/internal/user/repository"
)

var (
	noteUser    string
	noteTitle   string
	noteContent string
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note on behalf of a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return addNote(cmd.Context(), cmd.OutOrStdout(), app.UserRepo, app.NoteService, noteUser, noteTitle, noteContent)
	},
}

func addNote(ctx context.Context, out io.Writer, users userrepo.Repository, notes noteservice.Service, username, title, content string) error {
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup user %q: %w", username, err)
	}

	note, err := notes.CreateNote(ctx, noteservice.CreateNoteInput{
		Title:   &title,
		Content: &content,
	}, identitydomain.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created note %d for %s\n", note.ID, user.Username)
	return nil
}

func init() {
	noteAddCmd.Flags().StringVar(&noteUser, "user", "", "owner username")
	noteAddCmd.Flags().StringVar(&noteTitle, "title", "", "note title")
	noteAddCmd.Flags().StringVar(&noteContent, "content", "", "note content")
	_ = noteAddCmd.MarkFlagRequired("user")

	noteCmd.AddCommand(noteAddCmd)
	rootCmd.AddCommand(noteCmd)
}
