// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate produces the localized title published with each
// article. Translation is best-effort: any failure degrades to the
// original title and never blocks publication.
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Placeholder is returned for an empty or missing title without calling
// the backend.
const Placeholder = "Нет заголовка"

// Backend abstracts the translation service so tests can supply a mock.
type Backend interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Error reports a failed or malformed translation call.
type Error struct {
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("translation service returned HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("translation failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// errEmptyReply marks a completion with no usable text.
var errEmptyReply = errors.New("empty completion")

// Adapter wraps a Backend with placeholder and fallback handling.
type Adapter struct {
	backend Backend
	logger  zerolog.Logger
}

// NewAdapter returns an Adapter over backend.
func NewAdapter(backend Backend, logger zerolog.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		logger:  logger.With().Str("component", "translate").Logger(),
	}
}

// Title returns the localized title, Placeholder for an absent title, or
// the input unchanged when the backend fails.
func (a *Adapter) Title(ctx context.Context, title string) string {
	if title == "" || title == types.NoTitle {
		return Placeholder
	}

	translated, err := a.backend.Translate(ctx, title)
	if err != nil {
		a.logger.Warn().Err(err).Str("title", title).Msg("translation failed, using original title")
		return title
	}
	return translated
}
