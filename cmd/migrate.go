package cmd

import (
	"fmt"

	"skilldev_backend/pkg/database"
	"skilldev_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg)
		defer logger.Log.Sync()

		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database migrated")
		return nil
	},
}
