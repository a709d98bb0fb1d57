// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperwatch/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", types.DBFile))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleArticle(n int) types.PublishedArticle {
	return types.PublishedArticle{
		Fingerprint:     fmt.Sprintf("fp-%d", n),
		DOI:             fmt.Sprintf("10.1/%d", n),
		Title:           fmt.Sprintf("Hydrogen paper %d", n),
		TranslatedTitle: fmt.Sprintf("Статья %d", n),
		FirstAuthor:     "Doe, A",
		PublicationDate: "2024-01-01",
	}
}

func TestOpenCreatesSchemaAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", types.DBFile)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='published_articles'`,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), types.DBFile)
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), sampleArticle(1))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExistsAndInsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Insert(ctx, sampleArticle(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	ok, err = s.Exists(ctx, "fp-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "fp-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsertDuplicateFingerprint(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, sampleArticle(1))
	require.NoError(t, err)

	dup := sampleArticle(1)
	dup.Title = "different title, same fingerprint"
	_, err = s.Insert(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFingerprint)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExportAllInsertionOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, n := range []int{3, 1, 2} {
		_, err := s.Insert(ctx, sampleArticle(n))
		require.NoError(t, err)
	}

	all, err := s.ExportAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for i, want := range []int{3, 1, 2} {
		expected := sampleArticle(want)
		expected.ID = int64(i + 1)
		assert.Equal(t, expected, all[i])
	}
}

func TestExportAllEmpty(t *testing.T) {
	s := testStore(t)
	all, err := s.ExportAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedStoreErrors(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), types.DBFile))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Exists(context.Background(), "fp")
	assert.Error(t, err)
	_, err = s.Insert(context.Background(), sampleArticle(1))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateFingerprint)
}
