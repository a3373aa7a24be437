// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// CitationCounts maps a cited author's S2 ID to the number of times they
// were cited.
type CitationCounts map[string]int

// Collaborators maps a co-author's S2 ID to their author reference.
type Collaborators map[string]types.AuthorRef

// CollabStrategy recommends papers whose authors the user's previous
// collaborators have cited.
type CollabStrategy struct {
	scholar Scholar
	cfg     StrategyConfig
	logger  zerolog.Logger

	collaborators Memo[Collaborators]
	citations     Memo[CitationCounts]
}

// NewCollabStrategy returns a CollabStrategy.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewCollabStrategy(s Scholar, cfg StrategyConfig, logger zerolog.Logger) *CollabStrategy {
	return &CollabStrategy{
		scholar: s,
		cfg:     cfg.withDefaults(),
		logger:  logger.With().Str("component", "collab").Logger(),
	}
}

// Name returns the strategy identifier.
func (c *CollabStrategy) Name() string { return string(types.StrategyCollab) }

// Prepare does nothing; citation tables are built lazily per collaborator.
func (c *CollabStrategy) Prepare(context.Context, []string) error { return nil }

// Rank scores paperIDs in chunks of cfg.ChunkSize. Chunks run one after
// another; papers within a chunk are scored concurrently. A paper whose
// scoring fails is logged and left out.
func (c *CollabStrategy) Rank(ctx context.Context, userS2ID string, paperIDs []string) ([]types.Recommendation, error) {
	var recs []types.Recommendation
	for _, chunk := range Chunks(paperIDs, c.cfg.ChunkSize) {
		tasks := make([]Task[*types.Recommendation], len(chunk))
		for i, paperID := range chunk {
			tasks[i] = func(ctx context.Context) (*types.Recommendation, error) {
				rec, err := c.ScorePaper(ctx, userS2ID, paperID)
				if err != nil {
					c.logger.Warn().Err(err).Str("s2_id", userS2ID).Str("paper_id", paperID).Msg("scoring failed")
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

// ScorePaper scores the arXiv paper for the user. It returns nil when the
// paper has no authors or the user is one of them. The score is the highest
// number of times any collaborator (who is not an author of the paper) has
// cited one of the paper's authors. Collaborators whose citation table
// cannot be built do not contribute.
func (c *CollabStrategy) ScorePaper(ctx context.Context, userS2ID, arxivID string) (*types.Recommendation, error) {
	paper, err := c.scholar.Paper(ctx, types.ByArxiv(arxivID))
	if err != nil {
		return nil, err
	}
	if len(paper.Authors) == 0 || paper.HasAuthor(userS2ID) {
		return nil, nil
	}

	collaborators, err := c.Collaborators(ctx, userS2ID)
	if err != nil {
		return nil, err
	}

	var (
		score     int
		mostCited types.AuthorRef
		citer     types.AuthorRef
	)
	// Collaborators are visited in ID order so the lowest ID wins ties.
	for _, id := range sortedKeys(collaborators) {
		if paper.HasAuthor(id) {
			continue
		}
		counts, err := c.CitationCounts(ctx, id)
		if err != nil {
			c.logger.Warn().Err(err).Str("s2_id", id).Msg("skipping collaborator without citation table")
			continue
		}
		author, n := mostCitedAuthor(paper.Authors, counts)
		if n > score {
			score = n
			mostCited = author
			citer = collaborators[id]
		}
	}

	rec := &types.Recommendation{ArticleID: arxivID, Score: float64(score)}
	if score > 0 {
		rec.Explanation = c.explanation(mostCited, citer, score)
	}
	return rec, nil
}

// Collaborators returns everyone who co-authored one of the user's papers,
// whatever its year, excluding the user. The set is built once per user.
func (c *CollabStrategy) Collaborators(ctx context.Context, s2ID string) (Collaborators, error) {
	return c.collaborators.Get(ctx, s2ID, func(ctx context.Context) (Collaborators, error) {
		papers, err := authorPapers(ctx, c.scholar, s2ID, anyAge, c.cfg.Now(), c.logger)
		if err != nil {
			return nil, err
		}
		out := make(Collaborators)
		for _, p := range papers {
			for _, a := range p.Authors {
				if a.AuthorID != "" && a.AuthorID != s2ID {
					out[a.AuthorID] = a
				}
			}
		}
		return out, nil
	})
}

// CitationCounts returns, for every author referenced by one of the given
// author's papers, how many times they were referenced. Counts are not
// limited to recent papers; MaxPaperAge only appears in the explanation. The
// table is built once per author.
func (c *CollabStrategy) CitationCounts(ctx context.Context, s2ID string) (CitationCounts, error) {
	return c.citations.Get(ctx, s2ID, func(ctx context.Context) (CitationCounts, error) {
		papers, err := authorPapers(ctx, c.scholar, s2ID, anyAge, c.cfg.Now(), c.logger)
		if err != nil {
			return nil, err
		}
		out := make(CitationCounts)
		for _, p := range papers {
			for _, ref := range p.References {
				for _, a := range ref.Authors {
					if a.AuthorID != "" {
						out[a.AuthorID]++
					}
				}
			}
		}
		return out, nil
	})
}

// mostCitedAuthor returns the author with the highest count. The first
// author in paper order wins ties.
func mostCitedAuthor(authors []types.AuthorRef, counts CitationCounts) (types.AuthorRef, int) {
	var (
		best  types.AuthorRef
		bestN = -1
	)
	for _, a := range authors {
		n := 0
		if a.AuthorID != "" {
			n = counts[a.AuthorID]
		}
		if n > bestN {
			best, bestN = a, n
		}
	}
	return best, max(bestN, 0)
}

func (c *CollabStrategy) explanation(author, collaborator types.AuthorRef, n int) string {
	return fmt.Sprintf(
		"This article is authored by %s, who has been cited by your previous collaborator %s %d %s in the last %d years.",
		author.Name, collaborator.Name, n, plural(n, "time"), c.cfg.MaxPaperAge,
	)
}

var _ Strategy = (*CollabStrategy)(nil)
