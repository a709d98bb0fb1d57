// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename names it in kebab case
// (telegram-bot-token) and the trimmed contents are the value. Files are a
// fallback for deployments that mount secrets instead of exporting them.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Load reads all files in dir and returns a map of environment-style name
// (TELEGRAM_BOT_TOKEN) to trimmed contents. A missing directory is not an
// error. Unreadable files are logged and skipped.
func Load(dir string, logger zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[EnvName(name)] = value
		}
	}

	return secrets, nil
}

// EnvName maps a secret file name to its environment variable name.
func EnvName(file string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(file))
}
