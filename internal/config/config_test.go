// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every bound variable for the duration of the test and
// restores the original values afterwards, including any set by .env loading.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range bindings {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(EnvScopusAPIKey, "els-key")
	t.Setenv(EnvTelegramBotToken, "123:abc")
	t.Setenv(EnvTelegramChannelID, "-100200")
	t.Setenv(EnvOpenAIAPIKey, "sk-test")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv(EnvTelegramThreadID, "42")

	cfg, err := Load(viper.New(), Options{}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "els-key", cfg.Search.APIKey)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "-100200", cfg.Telegram.ChannelID)
	assert.Equal(t, 42, cfg.Telegram.ThreadID)
	assert.Equal(t, "sk-test", cfg.Translation.APIKey)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load(viper.New(), Options{}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, []string{"hydrogen", "ammonia"}, cfg.Search.Keywords)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 30*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "gpt-4o", cfg.Translation.Model)
	assert.Equal(t, 0, cfg.Telegram.ThreadID)
	assert.Equal(t, 20, cfg.Telegram.MessagesPerMinute)
	assert.Equal(t, filepath.Join(".", "s_articles.db"), cfg.DBPath())
}

func TestLoadMissingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTelegramBotToken, "123:abc")

	_, err := Load(viper.New(), Options{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvScopusAPIKey)
	assert.Contains(t, err.Error(), EnvTelegramChannelID)
	assert.Contains(t, err.Error(), EnvOpenAIAPIKey)
	assert.NotContains(t, err.Error(), EnvTelegramBotToken)
}

func TestLoadRejectsNonIntegerThreadID(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv(EnvTelegramThreadID, "general")

	_, err := Load(viper.New(), Options{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTelegramThreadID)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenAIAPIKey, "sk-from-process")

	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, `SCOPUS_API_KEY=els-from-file
TELEGRAM_BOT_TOKEN=999:file
TELEGRAM_CHANNEL_ID=@papers
OPENAI_API_KEY=sk-from-file
TELEGRAM_THREAD_ID=7
`)

	cfg, err := Load(viper.New(), Options{EnvFile: envFile}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "els-from-file", cfg.Search.APIKey)
	assert.Equal(t, "@papers", cfg.Telegram.ChannelID)
	assert.Equal(t, 7, cfg.Telegram.ThreadID)
	assert.Equal(t, "sk-from-process", cfg.Translation.APIKey, "process environment wins over .env")
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	_, err := Load(viper.New(), Options{EnvFile: filepath.Join(t.TempDir(), ".env")}, zerolog.Nop())
	assert.NoError(t, err)
}

func TestLoadSecretsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvScopusAPIKey, "els-env")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scopus-api-key"), "els-secret")
	writeFile(t, filepath.Join(dir, "telegram-bot-token"), "555:secret\n")
	writeFile(t, filepath.Join(dir, "telegram-channel-id"), "-1001")
	writeFile(t, filepath.Join(dir, "openai-api-key"), "sk-secret")
	writeFile(t, filepath.Join(dir, "telegram-thread-id"), "12")

	cfg, err := Load(viper.New(), Options{SecretsDir: dir}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "els-env", cfg.Search.APIKey, "environment wins over secret files")
	assert.Equal(t, "555:secret", cfg.Telegram.BotToken)
	assert.Equal(t, "-1001", cfg.Telegram.ChannelID)
	assert.Equal(t, "sk-secret", cfg.Translation.APIKey)
	assert.Equal(t, 12, cfg.Telegram.ThreadID)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	path := filepath.Join(t.TempDir(), "paperwatch.yaml")
	writeFile(t, path, `environment: local
log_level: debug
data_dir: /var/lib/paperwatch
search:
  keywords: [" fuel cell ", "electrolysis"]
  timeout: 45s
telegram:
  messages_per_minute: 5
`)

	cfg, err := Load(viper.New(), Options{ConfigFile: path}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/paperwatch", cfg.DataDir)
	assert.Equal(t, []string{"fuel cell", "electrolysis"}, cfg.Search.Keywords)
	assert.Equal(t, 45*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 5, cfg.Telegram.MessagesPerMinute)
	assert.Equal(t, "els-key", cfg.Search.APIKey)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	_, err := Load(viper.New(), Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestTrimKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, trimKeywords([]string{" a ", "b,c", ""}))
}
