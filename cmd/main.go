package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "social-feed"

func main() {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Infinite social feed synthesized from public placeholder APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := newServeCmd()
	root.AddCommand(serve, newPagesCmd())
	// Sans sous-commande : on lance le serveur
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
