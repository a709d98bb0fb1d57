// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article turns raw search records into their normalized form and
// derives the fingerprint that identifies a publication across poll cycles.
package article

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// markupTag matches any inline tag such as <inf>, </sup> or <i class="x">.
var markupTag = regexp.MustCompile(`<[^>]*>`)

// RemoveHTMLTags strips markup tags and keeps the enclosed text.
func RemoveHTMLTags(text string) string {
	if text == "" {
		return ""
	}
	return markupTag.ReplaceAllString(text, "")
}

// FirstAuthor returns the first name of a semicolon-joined author list,
// trimmed. An empty list yields types.NoAuthor.
func FirstAuthor(creators string) string {
	first, _, _ := strings.Cut(creators, ";")
	first = strings.TrimSpace(first)
	if first == "" {
		return types.NoAuthor
	}
	return first
}

// fingerprintSep joins the identity fields. Changing it, or the field
// order in Fingerprint, orphans every stored row.
const fingerprintSep = "-"

// Fingerprint returns the hex MD5 of doi, title, date and author joined in
// that order.
func Fingerprint(doi, title, date, author string) string {
	sum := md5.Sum([]byte(strings.Join([]string{doi, title, date, author}, fingerprintSep)))
	return hex.EncodeToString(sum[:])
}

// Candidate is a record after normalization, ready for the dedup check.
type Candidate struct {
	Fingerprint string
	DOI         string
	Title       string
	FirstAuthor string
	Date        string
}

// Normalize cleans the title, extracts the first author and computes the
// fingerprint for one record.
func Normalize(r types.Record) Candidate {
	c := Candidate{
		DOI:         orMarker(r.DOI, types.NoDOI),
		Title:       RemoveHTMLTags(orMarker(r.Title, types.NoTitle)),
		FirstAuthor: FirstAuthor(orMarker(r.Creators, types.NoAuthor)),
		Date:        orMarker(r.CoverDate, types.NoDate),
	}
	c.Fingerprint = Fingerprint(c.DOI, c.Title, c.Date, c.FirstAuthor)
	return c
}

// Article builds the persisted form of the candidate with its translated title.
func (c Candidate) Article(translated string) types.PublishedArticle {
	return types.PublishedArticle{
		Fingerprint:     c.Fingerprint,
		DOI:             c.DOI,
		Title:           c.Title,
		TranslatedTitle: translated,
		FirstAuthor:     c.FirstAuthor,
		PublicationDate: c.Date,
	}
}

func orMarker(v, marker string) string {
	if v == "" {
		return marker
	}
	return v
}
