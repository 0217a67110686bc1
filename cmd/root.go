package cmd

import (
	"errors"
	"fmt"
	"os"

	"skilldev_backend/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skilldev",
	Short: "Skills development platform backend",
	Long:  "企业培训平台后端：技能目录、员工档案、课程与选课。不带子命令时启动 HTTP 服务。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, false)
	},
	// .env 中的变量先于 viper 的 BindEnv 生效，已存在的环境变量不会被覆盖
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file loaded before the config")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(superuserCmd)
}

// loadConfig 读取 --config 指定目录下的配置，返回配置与目录
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, path, nil
}
