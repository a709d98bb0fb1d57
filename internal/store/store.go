// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists published articles in SQLite and answers whether
// a fingerprint has already been published. It is the only component that
// touches the database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// ErrDuplicateFingerprint is returned by Insert when the fingerprint is
// already stored. The UNIQUE constraint on the hash column raises it, so it
// holds even if two writers race past Exists.
var ErrDuplicateFingerprint = errors.New("duplicate fingerprint")

// Store manages the published_articles table.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema
// exists. Any error here is fatal to the process.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer, one reader at a time.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Column names match databases written by earlier deployments.
func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS published_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash TEXT UNIQUE,
		doi TEXT,
		eng_title TEXT,
		rus_title TEXT,
		first_author TEXT,
		pub_date TEXT
	)`)
	return err
}

// Exists reports whether an article with the fingerprint was inserted.
func (s *Store) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM published_articles WHERE hash = ? LIMIT 1`, fingerprint,
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("checking fingerprint %s: %w", fingerprint, err)
	}
	return true, nil
}

// Insert stores a new article and returns it with its assigned ID. It
// returns ErrDuplicateFingerprint when the fingerprint is already present.
func (s *Store) Insert(ctx context.Context, a types.PublishedArticle) (types.PublishedArticle, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO published_articles (hash, doi, eng_title, rus_title, first_author, pub_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Fingerprint, a.DOI, a.Title, a.TranslatedTitle, a.FirstAuthor, a.PublicationDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return a, fmt.Errorf("inserting %s: %w", a.Fingerprint, ErrDuplicateFingerprint)
		}
		return a, fmt.Errorf("inserting %s: %w", a.Fingerprint, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return a, fmt.Errorf("reading inserted id: %w", err)
	}
	a.ID = id
	return a, nil
}

// ExportAll returns every stored article in insertion order.
func (s *Store) ExportAll(ctx context.Context) ([]types.PublishedArticle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hash, doi, eng_title, rus_title, first_author, pub_date
		 FROM published_articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.PublishedArticle
	for rows.Next() {
		var (
			a                                            types.PublishedArticle
			hash, doi, title, translated, author, pubDate sql.NullString
		)
		if err := rows.Scan(&a.ID, &hash, &doi, &title, &translated, &author, &pubDate); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.Fingerprint = hash.String
		a.DOI = doi.String
		a.Title = title.String
		a.TranslatedTitle = translated.String
		a.FirstAuthor = author.String
		a.PublicationDate = pubDate.String
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM published_articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
