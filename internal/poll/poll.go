// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package poll runs one fetch, dedup, translate, persist and notify cycle.
// Each candidate is its own unit of work: a crash mid-cycle leaves earlier
// candidates published and later ones to be re-fetched next cycle.
package poll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paperwatch/internal/article"
	"github.com/pdiddy/paperwatch/internal/store"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// Fetcher returns the current candidate records in provider order.
type Fetcher interface {
	Fetch(ctx context.Context) ([]types.Record, error)
}

// Store is the subset of the dedup store the cycle needs.
type Store interface {
	Exists(ctx context.Context, fingerprint string) (bool, error)
	Insert(ctx context.Context, a types.PublishedArticle) (types.PublishedArticle, error)
}

// Translator localizes a title; it must not fail.
type Translator interface {
	Title(ctx context.Context, title string) string
}

// Publisher announces a persisted article.
type Publisher interface {
	Publish(ctx context.Context, a types.PublishedArticle) error
}

// Summary holds counts from one cycle.
type Summary struct {
	Fetched    int
	Published  int
	Seen       int
	Duplicates int
	// Failed counts candidates skipped because the store errored.
	Failed int
	// NotifyFailed counts persisted articles whose post was not delivered.
	NotifyFailed int
}

// Cycle wires the collaborators of a poll cycle.
type Cycle struct {
	fetcher    Fetcher
	store      Store
	translator Translator
	publisher  Publisher
	logger     zerolog.Logger
}

// NewCycle returns a Cycle over the given collaborators.
func NewCycle(f Fetcher, s Store, t Translator, p Publisher, logger zerolog.Logger) *Cycle {
	return &Cycle{
		fetcher:    f,
		store:      s,
		translator: t,
		publisher:  p,
		logger:     logger.With().Str("component", "poll").Logger(),
	}
}

// Run executes one cycle. A fetch failure aborts the cycle before any state
// change and is returned; per-candidate failures are logged and counted.
func (c *Cycle) Run(ctx context.Context) (Summary, error) {
	logger := c.logger.With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Msg("checking for new publications")

	records, err := c.fetcher.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("fetch failed, cycle aborted")
		return Summary{}, fmt.Errorf("fetching candidates: %w", err)
	}

	summary := Summary{Fetched: len(records)}
	if len(records) == 0 {
		logger.Info().Msg("no articles returned")
		return summary, nil
	}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		c.process(ctx, logger, r, &summary)
	}

	logger.Info().
		Int("fetched", summary.Fetched).
		Int("published", summary.Published).
		Int("seen", summary.Seen).
		Int("duplicates", summary.Duplicates).
		Int("failed", summary.Failed).
		Int("notify_failed", summary.NotifyFailed).
		Msg("cycle complete")
	return summary, nil
}

func (c *Cycle) process(ctx context.Context, logger zerolog.Logger, r types.Record, summary *Summary) {
	cand := article.Normalize(r)
	logger = logger.With().Str("fingerprint", cand.Fingerprint).Str("doi", cand.DOI).Logger()

	seen, err := c.store.Exists(ctx, cand.Fingerprint)
	if err != nil {
		logger.Error().Err(err).Msg("store lookup failed, skipping candidate")
		summary.Failed++
		return
	}
	if seen {
		logger.Debug().Msg("already published")
		summary.Seen++
		return
	}

	logger.Info().Str("title", cand.Title).Msg("new article found")

	translated := c.translator.Title(ctx, cand.Title)

	stored, err := c.store.Insert(ctx, cand.Article(translated))
	switch {
	case errors.Is(err, store.ErrDuplicateFingerprint):
		summary.Duplicates++
		return
	case err != nil:
		logger.Error().Err(err).Msg("store insert failed, skipping candidate")
		summary.Failed++
		return
	}
	summary.Published++

	if err := c.publisher.Publish(ctx, stored); err != nil {
		summary.NotifyFailed++
	}
}
