// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, " INFO ")
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("doi", "10.1/x").Msg("published")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "paperwatch", line["service"])
	assert.Equal(t, "10.1/x", line["doi"])
	assert.Equal(t, "published", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("production", "loud")
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestNewLocalConsole(t *testing.T) {
	_, err := New("local", "debug")
	assert.NoError(t, err)
}
