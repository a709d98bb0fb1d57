// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the process configuration from, in order of
// precedence: process environment, a .env file, the .secrets/ directory,
// an optional YAML config file, and compiled-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperwatch/internal/secrets"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// Environment variable names for the required credentials.
const (
	EnvScopusAPIKey      = "SCOPUS_API_KEY"
	EnvTelegramBotToken  = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChannelID = "TELEGRAM_CHANNEL_ID"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvTelegramThreadID  = "TELEGRAM_THREAD_ID"
)

// bindings maps viper keys to the environment variables that feed them.
var bindings = map[string]string{
	"search.api_key":      EnvScopusAPIKey,
	"telegram.bot_token":  EnvTelegramBotToken,
	"telegram.channel_id": EnvTelegramChannelID,
	"telegram.thread_id":  EnvTelegramThreadID,
	"translation.api_key": EnvOpenAIAPIKey,
	"environment":         "ENVIRONMENT",
	"log_level":           "LOG_LEVEL",
	"data_dir":            "PAPERWATCH_DATA_DIR",
}

// Options locate the optional inputs of Load. Empty fields are skipped.
type Options struct {
	ConfigFile string
	EnvFile    string
	SecretsDir string
}

// SetDefaults installs compiled-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", ".")

	for _, section := range []string{"search", "translation", "telegram"} {
		v.SetDefault(section+".timeout", 30*time.Second)
		v.SetDefault(section+".user_agent", "paperwatch/1.0")
	}
	v.SetDefault("search.keywords", types.DefaultKeywords)
	v.SetDefault("search.max_results", types.MaxCandidates)
	v.SetDefault("translation.model", "gpt-4o")
	v.SetDefault("telegram.thread_id", 0)
	v.SetDefault("telegram.messages_per_minute", 20)
}

// Load reads every configuration source into v and returns the validated
// result. The .env file never overrides variables already present in the
// process environment, and secret files only fill keys nothing else set.
func Load(v *viper.Viper, opts Options, logger zerolog.Logger) (types.Config, error) {
	SetDefaults(v)

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return types.Config{}, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
			}
		} else {
			logger.Debug().Str("file", opts.EnvFile).Msg("loaded env file")
		}
	}

	if opts.SecretsDir != "" {
		s, err := secrets.Load(opts.SecretsDir, logger)
		if err != nil {
			return types.Config{}, err
		}
		for key, env := range bindings {
			if value, ok := s[env]; ok {
				v.SetDefault(key, value)
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return types.Config{}, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
		logger.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return types.Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := validateThreadID(v.GetString("telegram.thread_id")); err != nil {
		return types.Config{}, err
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.Search.Keywords = trimKeywords(cfg.Search.Keywords)

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing required credential in one error.
func Validate(cfg types.Config) error {
	var missing []string
	if cfg.Search.APIKey == "" {
		missing = append(missing, EnvScopusAPIKey)
	}
	if cfg.Telegram.BotToken == "" {
		missing = append(missing, EnvTelegramBotToken)
	}
	if cfg.Telegram.ChannelID == "" {
		missing = append(missing, EnvTelegramChannelID)
	}
	if cfg.Translation.APIKey == "" {
		missing = append(missing, EnvOpenAIAPIKey)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if cfg.Telegram.ThreadID < 0 {
		return fmt.Errorf("%s must not be negative, got %d", EnvTelegramThreadID, cfg.Telegram.ThreadID)
	}
	return nil
}

func validateThreadID(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return fmt.Errorf("%s must be an integer, got %q", EnvTelegramThreadID, raw)
	}
	return nil
}

func trimKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		for _, part := range strings.Split(k, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
