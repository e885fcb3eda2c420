package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/jwtverify"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect bearer tokens",
}

var tokenVerifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify a token and resolve its user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier, err := app.LoadVerifier()
		if err != nil {
			return err
		}
		return verifyToken(cmd.Context(), cmd.OutOrStdout(), verifier, app.Resolver, args[0])
	},
}

func verifyToken(ctx context.Context, out io.Writer, verifier jwtverify.TokenVerifier, resolver jwtverify.Resolver, token string) error {
	claims, err := verifier.Verify(token)
	if err != nil {
		return err
	}
	if claims.Username == "" {
		return jwtverify.ErrInvalidToken
	}

	identity, err := resolver.Resolve(ctx, claims.Username)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "username: %s\nuser id: %d\n", identity.Username, identity.UserID)
	if claims.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func init() {
	tokenCmd.AddCommand(tokenVerifyCmd)
	rootCmd.AddCommand(tokenCmd)
}
