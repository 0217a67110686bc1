package cmd

import (
	"skilldev_backend/internal/app"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		return runServer(cmd, migrate)
	},
}

func init() {
	serverCmd.Flags().Bool("migrate", false, "Run database migrations on startup even in release mode")
}

func runServer(cmd *cobra.Command, migrate bool) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	application, err := app.Bootstrap(cfg, path, migrate)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run()
}
