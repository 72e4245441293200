// Command detmath runs deterministic fixed-point, number-theory and
// elliptic-curve operations through their ABI-encoded call interface, as a
// one-shot CLI, a batch runner, an HTTP server or an interactive REPL.
package main

import (
	"context"
	"os"

	"github.com/agbru/detmath/internal/app"
	apperrors "github.com/agbru/detmath/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}
	os.Exit(application.Run(context.Background(), os.Stdout))
}
