// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper recommender:
// Semantic Scholar records, digest users, recommendations, and configuration.
package types

import (
	"fmt"
	"time"
)

// AuthorRef identifies an author as it appears in a paper's author list.
// AuthorID is empty when Semantic Scholar could not resolve the author.
type AuthorRef struct {
	AuthorID string `json:"authorId" yaml:"author_id"`
	Name     string `json:"name" yaml:"name"`
}

// PaperSummary is the abbreviated paper entry listed on an author profile.
type PaperSummary struct {
	PaperID string `json:"paperId" yaml:"paper_id"`
	Title   string `json:"title" yaml:"title"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year" yaml:"year"`
}

// Author is a Semantic Scholar author profile.
type Author struct {
	AuthorID string         `json:"authorId" yaml:"author_id"`
	Name     string         `json:"name" yaml:"name"`
	Papers   []PaperSummary `json:"papers" yaml:"papers"`
}

// Paper holds the metadata of a single paper. References are shallow: their
// own References are never populated.
type Paper struct {
	// PaperID is the Semantic Scholar paper identifier.
	PaperID string `json:"paperId" yaml:"paper_id"`

	// ArxivID is the arXiv identifier (e.g. "2301.07041"), if any.
	ArxivID string `json:"arxivId" yaml:"arxiv_id"`

	Title string `json:"title" yaml:"title"`

	// Venue is the publication outlet (conference or journal name).
	Venue string `json:"venue" yaml:"venue"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year" yaml:"year"`

	Authors    []AuthorRef `json:"authors" yaml:"authors"`
	References []Paper     `json:"references" yaml:"references"`
}

// HasAuthor reports whether the author with the given S2 ID is listed on p.
func (p *Paper) HasAuthor(authorID string) bool {
	for _, a := range p.Authors {
		if a.AuthorID != "" && a.AuthorID == authorID {
			return true
		}
	}
	return false
}

// IsRecent reports whether the paper was published within maxAge years of
// now. Papers with an unknown year are treated as recent. A non-positive
// maxAge disables the filter.
func IsRecent(year, maxAge int, now time.Time) bool {
	if year <= 0 || maxAge <= 0 {
		return true
	}
	return now.Year()-year <= maxAge
}

// PaperLookup selects a paper by exactly one of its identifiers.
type PaperLookup struct {
	S2ID    string
	ArxivID string
}

// ByS2 returns a lookup for a Semantic Scholar paper ID.
func ByS2(id string) PaperLookup { return PaperLookup{S2ID: id} }

// ByArxiv returns a lookup for an arXiv ID.
func ByArxiv(id string) PaperLookup { return PaperLookup{ArxivID: id} }

// String returns the identifier used in the API path: the S2 ID, or the
// arXiv ID prefixed with "arXiv:".
func (l PaperLookup) String() string {
	if l.S2ID != "" {
		return l.S2ID
	}
	return fmt.Sprintf("arXiv:%s", l.ArxivID)
}

// Valid reports whether exactly one identifier is set.
func (l PaperLookup) Valid() bool {
	return (l.S2ID == "") != (l.ArxivID == "")
}
