package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/barbot/core/cmd"
	"github.com/m3rciful/barbot/internal/app"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "barbot",
	Short: "Telegram bot that finds bars near a shared location",
	Long: `BarBot answers a shared Telegram location with a map of nearby bars
and a numbered menu. Picking a number shows the bar's rating, phone,
address and a location pin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv(envFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return corecmd.Run(cmd.Context(), corecmd.Options{
			ConfigPath:        cfgFile,
			ConfigEnvVar:      "CONFIG_PATH",
			DefaultConfigPath: "config.yaml",
			LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
				return app.Load(path)
			},
			Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
				appCfg, ok := cfg.(*app.Config)
				if !ok {
					return nil, fmt.Errorf("unexpected config type %T", cfg)
				}
				return app.Bootstrap(ctx, appCfg)
			},
		})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default $CONFIG_PATH or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
