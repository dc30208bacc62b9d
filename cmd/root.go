package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// NewRootCommand creates the root command for the perfumeshop CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfumeshop",
		Short: "Perfume storefront API server and maintenance tasks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing .env is fine, the environment may be set directly.
			if err := godotenv.Load(); err == nil {
				log.Debug().Msg("loaded .env")
			}
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewInventoryCheckCommand())
	cmd.AddCommand(NewBackupCommand())
	cmd.AddCommand(NewPruneLogsCommand())
	cmd.AddCommand(NewHealthcheckCommand())

	return cmd
}
