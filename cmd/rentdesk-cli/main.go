package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/yndnr/rentdesk-go/internal/cli/command"
	"github.com/yndnr/rentdesk-go/internal/infra/shutdown"
)

func main() {
	// A .env file in the working directory may set RENTDESK_* or
	// REACT_APP_API_BASE_URL; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := shutdown.Signals(context.Background())
	defer stop()

	app := command.App()
	if err := app.RunContext(ctx, os.Args); err != nil {
		command.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
