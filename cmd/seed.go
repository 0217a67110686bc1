package cmd

import (
	"fmt"
	"time"

	"skilldev_backend/internal/app"
	"skilldev_backend/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample skills, courses, instructors and workers",
	Long:  "写入演示数据，已存在的记录会被跳过，可以重复执行。",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		application, err := app.Bootstrap(cfg, "", true)
		if err != nil {
			return err
		}
		defer application.Close()

		randSeed, _ := cmd.Flags().GetInt64("rand-seed")
		if randSeed == 0 {
			randSeed = time.Now().UnixNano()
		}

		result, err := seed.NewSeeder(application.DB, application.Services.Auth, randSeed).Run()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %d categories, %d skills\n", result.Categories, result.Skills)
		fmt.Fprintf(out, "Created %d instructors, %d courses\n", result.Instructors, result.Courses)
		fmt.Fprintf(out, "Created %d workers\n", result.Workers)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64("rand-seed", 0, "Seed for department and skill assignment (0 uses the clock)")
}
