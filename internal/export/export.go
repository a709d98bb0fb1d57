// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export dumps every published article to a CSV file and delivers
// it to the channel as a document.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Caption accompanies the delivered CSV.
const Caption = "Свод публикаций Scopus (CSV)"

// utf8BOM lets spreadsheet tools detect the encoding.
const utf8BOM = "\ufeff"

// Header is the fixed column order of the CSV artifact.
var Header = []string{
	"ID", "Hash", "DOI", "English Title", "Russian Title",
	"First Author", "Publication Date", "Original Link",
}

// Source lists stored articles in insertion order.
type Source interface {
	ExportAll(ctx context.Context) ([]types.PublishedArticle, error)
}

// DocumentPublisher delivers a file to the channel.
type DocumentPublisher interface {
	PublishDocument(ctx context.Context, path, caption string) error
}

// Error reports a failed export stage: "query", "write" or "deliver".
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("export %s: %v", e.Stage, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Exporter writes the CSV artifact and hands it to the publisher.
type Exporter struct {
	source    Source
	publisher DocumentPublisher
	path      string
	logger    zerolog.Logger
}

// NewExporter returns an Exporter writing to path.
func NewExporter(source Source, publisher DocumentPublisher, path string, logger zerolog.Logger) *Exporter {
	return &Exporter{
		source:    source,
		publisher: publisher,
		path:      path,
		logger:    logger.With().Str("component", "export").Logger(),
	}
}

// Path returns the artifact location.
func (e *Exporter) Path() string { return e.path }

// Run writes the artifact and delivers it. A write failure skips delivery.
func (e *Exporter) Run(ctx context.Context) error {
	logger := e.logger.With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	n, err := e.Write(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("export aborted")
		return err
	}
	logger.Info().Int("rows", n).Str("path", e.path).Msg("export written")

	if err := e.publisher.PublishDocument(ctx, e.path, Caption); err != nil {
		return &Error{Stage: "deliver", Err: err}
	}
	return nil
}

// Write replaces the artifact with the current store contents and returns
// the number of data rows.
func (e *Exporter) Write(ctx context.Context) (int, error) {
	articles, err := e.source.ExportAll(ctx)
	if err != nil {
		return 0, &Error{Stage: "query", Err: err}
	}
	err = writeAtomic(e.path, func(w io.Writer) error {
		return WriteCSV(w, articles)
	})
	if err != nil {
		return 0, &Error{Stage: "write", Err: err}
	}
	return len(articles), nil
}

// WriteYAML writes the same rows as YAML to path. It is a local dump and is
// not delivered.
func (e *Exporter) WriteYAML(ctx context.Context, path string) error {
	articles, err := e.source.ExportAll(ctx)
	if err != nil {
		return &Error{Stage: "query", Err: err}
	}
	rows := make([]yamlRow, len(articles))
	for i, a := range articles {
		rows[i] = yamlRow{PublishedArticle: a, Link: a.Link()}
	}
	err = writeAtomic(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return &Error{Stage: "write", Err: err}
	}
	return nil
}

type yamlRow struct {
	types.PublishedArticle `yaml:",inline"`
	Link                   string `yaml:"link"`
}

// WriteCSV writes the BOM, the header and one row per article.
func WriteCSV(w io.Writer, articles []types.PublishedArticle) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, a := range articles {
		if err := cw.Write(row(a)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(a types.PublishedArticle) []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Fingerprint,
		a.DOI,
		a.Title,
		a.TranslatedTitle,
		a.FirstAuthor,
		a.PublicationDate,
		a.Link(),
	}
}

// writeAtomic writes through a temp file in the target directory and
// renames it over path, so a failed export leaves the previous one intact.
func writeAtomic(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
