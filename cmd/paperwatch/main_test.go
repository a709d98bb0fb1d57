// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("SCOPUS_API_KEY", "els-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHANNEL_ID", "-100200")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TELEGRAM_THREAD_ID", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "paperwatch dev\n", out)
}

func TestExportWithoutSending(t *testing.T) {
	setCredentials(t)
	dir := t.TempDir()
	noEnv := filepath.Join(dir, "missing.env")

	out, err := execute(t, "export", "--no-send", "--data-dir", dir, "--env", noEnv, "--secrets", filepath.Join(dir, "none"))
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 0 articles")

	data, err := os.ReadFile(filepath.Join(dir, "scopus_pub.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeffID,"))
	assert.FileExists(t, filepath.Join(dir, "s_articles.db"))
}

func TestMissingCredentialsFail(t *testing.T) {
	setCredentials(t)
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()

	_, err := execute(t, "poll", "--data-dir", dir, "--env", filepath.Join(dir, "missing.env"), "--secrets", filepath.Join(dir, "none"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
