// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/paperwatch/pkg/types"
)

func TestRemoveHTMLTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"subscript", "Some<inf>2</inf>Text", "Some2Text"},
		{"empty", "", ""},
		{"no markup", "Plain title", "Plain title"},
		{"italic", "<i>Hydrogen</i> Storage", "Hydrogen Storage"},
		{"attributes", `NH<sub class="x">3</sub> cracking`, "NH3 cracking"},
		{"keeps other characters", "A & B: 5% > 4%", "A & B: 5% > 4%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveHTMLTags(tt.in))
		})
	}
}

func TestFirstAuthor(t *testing.T) {
	tests := []struct {
		name     string
		creators string
		want     string
	}{
		{"two authors", "Smith, John; Williams, Kate", "Smith, John"},
		{"single author", "Doe, A", "Doe, A"},
		{"surrounding whitespace", "  Roe, B  ; Doe, A", "Roe, B"},
		{"marker passes through", types.NoAuthor, types.NoAuthor},
		{"empty", "", types.NoAuthor},
		{"blank first entry", " ; Doe, A", types.NoAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstAuthor(tt.creators))
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("10.1/x", "Hydrogen Storage", "2024-01-01", "Doe, A")
	b := Fingerprint("10.1/x", "Hydrogen Storage", "2024-01-01", "Doe, A")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
	// md5("10.1/x-Hydrogen Storage-2024-01-01-Doe, A") must never change.
	assert.Equal(t, "de6d5412e7828a10c4aeb6df57564c40", a)
}

func TestFingerprintKnownValue(t *testing.T) {
	// md5 of "a-b-c-d".
	assert.Equal(t, "c004a76fff893f75395917313608effd", Fingerprint("a", "b", "c", "d"))
}

func TestFingerprintDiffersPerField(t *testing.T) {
	base := Fingerprint("10.1/x", "Hydrogen Storage", "2024-01-01", "Doe, A")
	variants := map[string]string{
		"doi":    Fingerprint("10.1/y", "Hydrogen Storage", "2024-01-01", "Doe, A"),
		"title":  Fingerprint("10.1/x", "Ammonia Storage", "2024-01-01", "Doe, A"),
		"date":   Fingerprint("10.1/x", "Hydrogen Storage", "2024-01-02", "Doe, A"),
		"author": Fingerprint("10.1/x", "Hydrogen Storage", "2024-01-01", "Roe, B"),
	}
	for field, fp := range variants {
		assert.NotEqual(t, base, fp, "changing %s must change the fingerprint", field)
	}
}

func TestNormalize(t *testing.T) {
	c := Normalize(types.Record{
		DOI:       "10.1/x",
		Title:     "<i>Hydrogen</i> Storage",
		Creators:  "Doe, A; Roe, B",
		CoverDate: "2024-01-01",
	})
	assert.Equal(t, "10.1/x", c.DOI)
	assert.Equal(t, "Hydrogen Storage", c.Title)
	assert.Equal(t, "Doe, A", c.FirstAuthor)
	assert.Equal(t, "2024-01-01", c.Date)
	assert.Equal(t, Fingerprint("10.1/x", "Hydrogen Storage", "2024-01-01", "Doe, A"), c.Fingerprint)
}

func TestNormalizeMissingFields(t *testing.T) {
	c := Normalize(types.Record{})
	assert.Equal(t, types.NoDOI, c.DOI)
	assert.Equal(t, types.NoTitle, c.Title)
	assert.Equal(t, types.NoAuthor, c.FirstAuthor)
	assert.Equal(t, types.NoDate, c.Date)

	a := c.Article("перевод")
	assert.Equal(t, c.Fingerprint, a.Fingerprint)
	assert.Equal(t, "перевод", a.TranslatedTitle)
	assert.False(t, a.HasDOI())
	assert.Equal(t, types.NoLink, a.Link())
}
