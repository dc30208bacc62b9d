package cmd

import (
	"os"

	"perfumeshop/db"
	"perfumeshop/routes"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			db.InitDatabase()

			// Create uploads directory if it doesn't exist
			if _, err := os.Stat("uploads"); os.IsNotExist(err) {
				os.Mkdir("uploads", 0755)
			}

			app := routes.NewApp()

			port := os.Getenv("PORT")
			if port == "" {
				port = "3000"
			}
			log.Info().Str("port", port).Msg("starting server")
			return app.Listen(":" + port)
		},
	}
}
