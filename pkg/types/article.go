// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperwatch pipeline:
// the per-cycle Record fetched from the search provider, the persisted
// PublishedArticle, the placeholder markers that stand in for absent
// provider fields, and the configuration for every stage.
package types

// Placeholder markers substituted for fields the search provider omits.
// They are stored verbatim and participate in the fingerprint, so they are
// part of the persisted contract.
const (
	NoDOI    = "No DOI"
	NoTitle  = "No Title"
	NoDate   = "No Date"
	NoAuthor = "No Author"
)

// NoLink is written to the export link column when an article has no DOI.
const NoLink = "No link"

// DOIResolverBase prefixes a bare DOI to form a clickable link.
const DOIResolverBase = "https://doi.org/"

// Record is one candidate publication returned by the search provider for
// the current poll cycle. Absent fields already carry their marker.
type Record struct {
	// DOI is the external identifier, or NoDOI.
	DOI string `json:"doi" yaml:"doi"`

	// Title is the raw provider title, possibly containing inline markup.
	Title string `json:"title" yaml:"title"`

	// Creators is the provider's semicolon-joined author list, or NoAuthor.
	Creators string `json:"creators" yaml:"creators"`

	// CoverDate is the publication date as supplied, or NoDate.
	CoverDate string `json:"cover_date" yaml:"cover_date"`
}

// PublishedArticle is a record that has been persisted and announced. It is
// created once when first seen and never mutated afterwards.
type PublishedArticle struct {
	// ID is the store's auto-increment sequence; zero before insertion.
	ID int64 `json:"id" yaml:"id"`

	// Fingerprint is the stable identity derived from DOI, title, date and author.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	DOI             string `json:"doi" yaml:"doi"`
	Title           string `json:"title" yaml:"title"`
	TranslatedTitle string `json:"translated_title" yaml:"translated_title"`
	FirstAuthor     string `json:"first_author" yaml:"first_author"`
	PublicationDate string `json:"publication_date" yaml:"publication_date"`
}

// HasDOI reports whether the article carries a real external identifier.
func (a PublishedArticle) HasDOI() bool {
	return a.DOI != "" && a.DOI != NoDOI
}

// Link returns the DOI resolver URL, or NoLink when there is no DOI.
func (a PublishedArticle) Link() string {
	if !a.HasDOI() {
		return NoLink
	}
	return DOIResolverBase + a.DOI
}
