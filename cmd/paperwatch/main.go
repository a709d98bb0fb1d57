// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperwatch CLI. The run command
// is the long-running bot; poll and export execute a single job and exit.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperwatch/internal/config"
	"github.com/pdiddy/paperwatch/internal/logging"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Populated by PersistentPreRunE for every command that needs them.
var (
	cfg    types.Config
	logger zerolog.Logger
)

// rootCmd is the base command for the paperwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "paperwatch",
	Short: "Announce new Scopus publications to a Telegram channel",
	Long: `paperwatch polls Scopus for the newest articles whose titles match the
configured keywords, translates each unseen title into Russian, records it in a
local SQLite database and posts it to a Telegram channel. Once a week it sends
the full history as a CSV document.

Credentials come from the environment, a .env file or the .secrets/ directory:
SCOPUS_API_KEY, TELEGRAM_BOT_TOKEN, TELEGRAM_CHANNEL_ID, OPENAI_API_KEY and the
optional TELEGRAM_THREAD_ID.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: ./paperwatch.yaml when present)")
	rootCmd.PersistentFlags().String("env", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("secrets", ".secrets", "directory of per-key secret files")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the database and exports")
}

func initConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfgFile, _ := flags.GetString("config")
	if cfgFile == "" {
		if _, err := os.Stat("paperwatch.yaml"); err == nil {
			cfgFile = "paperwatch.yaml"
		}
	}
	envFile, _ := flags.GetString("env")
	secretsDir, _ := flags.GetString("secrets")

	v := viper.New()
	if err := v.BindPFlag("data_dir", flags.Lookup("data-dir")); err != nil {
		return err
	}

	bootstrap, err := logging.New(os.Getenv("ENVIRONMENT"), "info")
	if err != nil {
		return err
	}

	loaded, err := config.Load(v, config.Options{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		SecretsDir: secretsDir,
	}, bootstrap)
	if err != nil {
		bootstrap.Error().Err(err).Msg("configuration invalid")
		return err
	}

	l, err := logging.New(loaded.Environment, loaded.LogLevel)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
