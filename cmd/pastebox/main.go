// pastebox is a self-hosted drop box for text snippets and files.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// @title pastebox API
// @version 1.0
// @description Drop box for text snippets and files kept consistent with a storage folder.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	rootCmd := &cobra.Command{
		Use:   "pastebox",
		Short: "pastebox - drop box for text snippets and files",
		Long: `pastebox stores text snippets and uploaded files. Files live in a storage
folder on disk and their records in a SQL database; a watcher and a reconciler
keep the two in line.

Configuration is read from the environment (a .env file is loaded if present).

Examples:
  # Run the HTTP service (default)
  pastebox serve

  # Prune records whose files are gone
  pastebox sweep

  # List unreferenced files without removing them
  pastebox orphans --dry-run

  # Move the storage folder while the service is down
  pastebox set-root /srv/pastebox`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	rootCmd.AddCommand(serve, newSweepCmd(), newOrphansCmd(), newSetRootCmd())
	return rootCmd
}
