// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperwatch/internal/export"
	"github.com/pdiddy/paperwatch/internal/notify"
	"github.com/pdiddy/paperwatch/internal/poll"
	"github.com/pdiddy/paperwatch/internal/search"
	"github.com/pdiddy/paperwatch/internal/store"
	"github.com/pdiddy/paperwatch/internal/translate"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// services is the fully wired object graph shared by the commands.
type services struct {
	store    *store.Store
	notifier *notify.Notifier
	cycle    *poll.Cycle
	exporter *export.Exporter
}

// newServices opens the store and connects every collaborator to it. The
// caller owns the returned store and must close it.
func newServices(cfg types.Config, logger zerolog.Logger) (*services, error) {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", cfg.DBPath()).Msg("store opened")

	notifier := notify.NewNotifier(notify.NewTelegramClient(cfg.Telegram), cfg.Telegram, logger)
	translator := translate.NewAdapter(translate.NewOpenAIBackend(cfg.Translation), logger)
	fetcher := search.NewClient(nil, cfg.Search)

	return &services{
		store:    st,
		notifier: notifier,
		cycle:    poll.NewCycle(fetcher, st, translator, notifier, logger),
		exporter: export.NewExporter(st, notifier, cfg.ExportPath(), logger),
	}, nil
}

func (s *services) Close() error {
	return s.store.Close()
}

// yamlExportPath returns the YAML artifact location next to the CSV.
func yamlExportPath(cfg types.Config) string {
	return filepath.Join(cfg.DataDir, types.ExportYAMLFile)
}
