// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// StrategyConfig holds the settings shared by the scoring strategies.
type StrategyConfig struct {
	// MaxPaperAge is the recency window in years applied to venue vectors
	// and quoted in explanations.
	MaxPaperAge int

	// ChunkSize is the number of candidates scored concurrently.
	ChunkSize int

	// Workers bounds concurrent author-vector builds during Prepare.
	Workers int

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

func (c StrategyConfig) withDefaults() StrategyConfig {
	if c.MaxPaperAge <= 0 {
		c.MaxPaperAge = types.DefaultMaxPaperAge
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = types.DefaultScoreChunkSize
	}
	if c.Workers <= 0 {
		c.Workers = types.DefaultPrecomputeWorkers
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// anyAge disables the recency filter of authorPapers.
const anyAge = 0

// authorPapers fetches the author's papers published within maxAge years
// (or with an unknown year); maxAge of anyAge keeps every paper. Papers that
// fail to load are logged and left out.
//
//nolint:gocritic // zerolog.Logger is passed by value
func authorPapers(ctx context.Context, s Scholar, authorID string, maxAge int, now time.Time, logger zerolog.Logger) ([]types.Paper, error) {
	author, err := s.Author(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("fetching papers of author %s: %w", authorID, err)
	}

	var tasks []Task[types.Paper]
	for _, summary := range author.Papers {
		if summary.PaperID == "" || !types.IsRecent(summary.Year, maxAge, now) {
			continue
		}
		tasks = append(tasks, func(ctx context.Context) (types.Paper, error) {
			p, err := s.Paper(ctx, types.ByS2(summary.PaperID))
			if err != nil {
				logger.Debug().Err(err).Str("paper_id", summary.PaperID).Msg("dropping paper")
				return types.Paper{}, err
			}
			return *p, nil
		})
	}
	return Gather(ctx, tasks...), nil
}

// plural returns word with an "s" unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// normalizeVenue trims and collapses whitespace in a venue name.
func normalizeVenue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
