// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// fakeScholar serves authors and papers from memory and counts lookups.
type fakeScholar struct {
	mu          sync.Mutex
	authors     map[string]*types.Author
	papers      map[string]*types.Paper // keyed by PaperLookup.String()
	authorCalls map[string]int
	paperCalls  map[string]int
	failAuthor  map[string]error
	delay       time.Duration
}

func newFakeScholar() *fakeScholar {
	return &fakeScholar{
		authors:     make(map[string]*types.Author),
		papers:      make(map[string]*types.Paper),
		authorCalls: make(map[string]int),
		paperCalls:  make(map[string]int),
		failAuthor:  make(map[string]error),
	}
}

func (f *fakeScholar) Author(ctx context.Context, s2ID string) (*types.Author, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorCalls[s2ID]++
	if err := f.failAuthor[s2ID]; err != nil {
		return nil, err
	}
	a, ok := f.authors[s2ID]
	if !ok {
		return nil, fmt.Errorf("author %s not found", s2ID)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeScholar) Paper(ctx context.Context, lookup types.PaperLookup) (*types.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := lookup.String()
	f.paperCalls[key]++
	p, ok := f.papers[key]
	if !ok {
		return nil, fmt.Errorf("paper %s not found", key)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeScholar) authorCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authorCalls[id]
}

// addAuthor registers an author whose papers are the given S2 papers. Each
// paper is registered too.
func (f *fakeScholar) addAuthor(id, name string, papers ...types.Paper) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &types.Author{AuthorID: id, Name: name}
	for _, p := range papers {
		p := p
		a.Papers = append(a.Papers, types.PaperSummary{PaperID: p.PaperID, Title: p.Title, Year: p.Year})
		f.papers[p.PaperID] = &p
	}
	f.authors[id] = a
}

// addCandidate registers an arXiv candidate paper.
func (f *fakeScholar) addCandidate(arxivID string, authors ...types.AuthorRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.papers[types.ByArxiv(arxivID).String()] = &types.Paper{ArxivID: arxivID, Authors: authors}
}

func ref(id, name string) types.AuthorRef { return types.AuthorRef{AuthorID: id, Name: name} }

// citing returns a reference paper authored by the given authors.
func citing(authors ...types.AuthorRef) types.Paper { return types.Paper{Authors: authors} }

func testStrategyConfig() StrategyConfig {
	return StrategyConfig{
		MaxPaperAge: 5,
		ChunkSize:   5,
		Workers:     4,
		Now:         func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
