// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// VenueStrategy recommends papers whose authors publish at the same venues
// as the user. Each author is represented by a Vector of publication counts
// per venue; candidates are scored by cosine similarity.
type VenueStrategy struct {
	scholar Scholar
	cfg     StrategyConfig
	logger  zerolog.Logger

	venueMu sync.Mutex
	venues  map[string]int

	vectors Memo[Vector]
	papers  Memo[*types.Paper]
}

// NewVenueStrategy returns a VenueStrategy.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewVenueStrategy(s Scholar, cfg StrategyConfig, logger zerolog.Logger) *VenueStrategy {
	return &VenueStrategy{
		scholar: s,
		cfg:     cfg.withDefaults(),
		logger:  logger.With().Str("component", "venue").Logger(),
		venues:  make(map[string]int),
	}
}

// Name returns the strategy identifier.
func (v *VenueStrategy) Name() string { return string(types.StrategyVenue) }

// Venues returns the number of distinct venues discovered so far.
func (v *VenueStrategy) Venues() int {
	v.venueMu.Lock()
	defer v.venueMu.Unlock()
	return len(v.venues)
}

// venueIndex returns the vector position of venue, assigning the next free
// position the first time a venue is seen.
func (v *VenueStrategy) venueIndex(venue string) int {
	v.venueMu.Lock()
	defer v.venueMu.Unlock()
	i, ok := v.venues[venue]
	if !ok {
		i = len(v.venues)
		v.venues[venue] = i
	}
	return i
}

// AuthorVector returns the venue vector of the author's recent papers.
// Papers without a venue are ignored. The vector is built once per author;
// concurrent callers share a single build.
func (v *VenueStrategy) AuthorVector(ctx context.Context, s2ID string) (Vector, error) {
	return v.vectors.Get(ctx, s2ID, func(ctx context.Context) (Vector, error) {
		papers, err := authorPapers(ctx, v.scholar, s2ID, v.cfg.MaxPaperAge, v.cfg.Now(), v.logger)
		if err != nil {
			return nil, err
		}
		var vec Vector
		for _, p := range papers {
			venue := normalizeVenue(p.Venue)
			if venue == "" {
				continue
			}
			i := v.venueIndex(venue)
			if i >= len(vec) {
				vec = append(vec, make(Vector, i+1-len(vec))...)
			}
			vec[i]++
		}
		return vec, nil
	})
}

// candidate returns the metadata of an arXiv candidate paper.
func (v *VenueStrategy) candidate(ctx context.Context, arxivID string) (*types.Paper, error) {
	return v.papers.Get(ctx, arxivID, func(ctx context.Context) (*types.Paper, error) {
		return v.scholar.Paper(ctx, types.ByArxiv(arxivID))
	})
}

// Prepare fetches every candidate paper and builds the vectors of all their
// authors, so the cost is paid once per run rather than once per user.
// Failures are logged; the affected papers or authors are simply missing.
func (v *VenueStrategy) Prepare(ctx context.Context, paperIDs []string) error {
	paperTasks := make([]Task[*types.Paper], len(paperIDs))
	for i, id := range paperIDs {
		paperTasks[i] = func(ctx context.Context) (*types.Paper, error) {
			p, err := v.candidate(ctx, id)
			if err != nil {
				v.logger.Warn().Err(err).Str("paper_id", id).Msg("candidate paper unavailable")
			}
			return p, err
		}
	}
	papers := GatherLimit(ctx, v.cfg.Workers, paperTasks...)

	seen := make(map[string]bool)
	var vectorTasks []Task[Vector]
	for _, p := range papers {
		for _, a := range p.Authors {
			if a.AuthorID == "" || seen[a.AuthorID] {
				continue
			}
			seen[a.AuthorID] = true
			vectorTasks = append(vectorTasks, func(ctx context.Context) (Vector, error) {
				vec, err := v.AuthorVector(ctx, a.AuthorID)
				if err != nil {
					v.logger.Warn().Err(err).Str("s2_id", a.AuthorID).Msg("author vector unavailable")
				}
				return vec, err
			})
		}
	}
	built := GatherLimit(ctx, v.cfg.Workers, vectorTasks...)

	v.logger.Info().
		Int("papers", len(papers)).
		Int("authors", len(vectorTasks)).
		Int("vectors", len(built)).
		Int("cached_vectors", v.vectors.Len()).
		Int("venues", v.Venues()).
		Msg("precomputed candidate author vectors")
	return ctx.Err()
}

// Rank scores paperIDs by the best cosine similarity between the user's
// vector and any of the paper's authors' vectors. It fails when the user's
// vector cannot be built.
func (v *VenueStrategy) Rank(ctx context.Context, userS2ID string, paperIDs []string) ([]types.Recommendation, error) {
	userVec, err := v.AuthorVector(ctx, userS2ID)
	if err != nil {
		return nil, fmt.Errorf("building vector for user %s: %w", userS2ID, err)
	}

	var recs []types.Recommendation
	for _, chunk := range Chunks(paperIDs, v.cfg.ChunkSize) {
		tasks := make([]Task[*types.Recommendation], len(chunk))
		for i, paperID := range chunk {
			tasks[i] = func(ctx context.Context) (*types.Recommendation, error) {
				rec, err := v.ScorePaper(ctx, userS2ID, userVec, paperID)
				if err != nil {
					v.logger.Warn().Err(err).Str("s2_id", userS2ID).Str("paper_id", paperID).Msg("scoring failed")
				}
				return rec, err
			}
		}
		for _, rec := range Gather(ctx, tasks...) {
			if rec != nil {
				recs = append(recs, *rec)
			}
		}
	}
	return recs, nil
}

// ScorePaper scores one candidate against the user's vector. It returns nil
// when the paper has no authors, the user is one of them, or no author has
// a vector.
func (v *VenueStrategy) ScorePaper(ctx context.Context, userS2ID string, userVec Vector, arxivID string) (*types.Recommendation, error) {
	paper, err := v.candidate(ctx, arxivID)
	if err != nil {
		return nil, err
	}
	if len(paper.Authors) == 0 || paper.HasAuthor(userS2ID) {
		return nil, nil
	}

	var (
		best    types.AuthorRef
		bestSim = -1.0
	)
	for _, a := range paper.Authors {
		if a.AuthorID == "" {
			continue
		}
		vec, err := v.AuthorVector(ctx, a.AuthorID)
		if err != nil {
			continue
		}
		// The first author in paper order wins ties.
		if sim := PaddedCosine(userVec, vec); sim > bestSim {
			best, bestSim = a, sim
		}
	}
	if bestSim < 0 {
		return nil, nil
	}

	rec := &types.Recommendation{ArticleID: arxivID, Score: bestSim}
	if bestSim > 0 {
		rec.Explanation = fmt.Sprintf(
			"This article is authored by %s, who has published in venues similar to yours in the last %d years.",
			best.Name, v.cfg.MaxPaperAge,
		)
	}
	return rec, nil
}

var _ Strategy = (*VenueStrategy)(nil)
