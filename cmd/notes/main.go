package main

import (
	"context"
	"os"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/bootstrap"
	srv "github.com/AlibekovAA/secure-notes/backend/internal/common/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewNotesApp(ctx)
	bootstrap.ExitOnError(err)

	server := srv.NewServer(srv.DefaultServerConfig(app.Config.HTTPPort), app.Handler())

	hooks := append([]srv.ShutdownHook{
		func(context.Context) error {
			app.Log.Infof("notes service: stopping background workers")
			cancel()
			return nil
		},
	}, app.ShutdownHooks()...)

	if err := srv.Run(ctx, server, app.Log, "notes", hooks); err != nil {
		app.Log.Errorf("notes service exited: %v", err)
		os.Exit(1)
	}
}
