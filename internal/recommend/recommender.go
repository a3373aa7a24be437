// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend scores arXivDigest candidate papers for users from
// their Semantic Scholar history. A Recommender drives the per-user
// pipeline; a Strategy supplies the scores.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-recommender/internal/scholar"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// Scholar is the subset of the Semantic Scholar client the recommenders use.
type Scholar interface {
	Author(ctx context.Context, s2ID string) (*types.Author, error)
	Paper(ctx context.Context, lookup types.PaperLookup) (*types.Paper, error)
}

// Strategy ranks candidate papers for one user. Implementations must be
// safe for concurrent use.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Prepare is called once per run with every candidate paper before any
	// user is ranked.
	Prepare(ctx context.Context, paperIDs []string) error

	// Rank scores paperIDs for the user with the given Semantic Scholar ID.
	// Unscorable papers are left out. An error means the user cannot be
	// ranked at all.
	Rank(ctx context.Context, userS2ID string, paperIDs []string) ([]types.Recommendation, error)
}

// Connector is the arXivDigest API the recommender reads users and
// candidates from and submits recommendations to.
type Connector interface {
	ArticleIDs(ctx context.Context) ([]string, error)
	UserCount(ctx context.Context) (int, error)
	UserIDs(ctx context.Context, offset int) ([]string, error)
	UserInfo(ctx context.Context, userIDs []string) (map[string]types.User, error)
	InterleavedArticles(ctx context.Context, userIDs []string) (map[string][]string, error)
	SubmitRecommendations(ctx context.Context, recs types.Recommendations) error
}

// Recommender runs a Strategy over batches of users.
type Recommender struct {
	strategy Strategy
	scholar  Scholar
	cfg      types.RecommenderConfig
	logger   zerolog.Logger
}

// New returns a Recommender. Zero config values take their defaults.
//
//nolint:gocritic // zerolog.Logger is passed by value
func New(strategy Strategy, scholar Scholar, cfg types.RecommenderConfig, logger zerolog.Logger) *Recommender {
	return &Recommender{
		strategy: strategy,
		scholar:  scholar,
		cfg:      cfg.WithDefaults(),
		logger:   logger.With().Str("component", "recommend").Str("strategy", strategy.Name()).Logger(),
	}
}

// Recommendations ranks paperIDs for every user in users. Users without a
// Semantic Scholar profile, or whose profile cannot be fetched, are skipped.
// Interleaved papers and papers scoring zero are dropped, the rest are
// sorted by score and truncated. Users left with nothing are omitted.
func (r *Recommender) Recommendations(
	ctx context.Context,
	users map[string]types.User,
	interleaved map[string][]string,
	paperIDs []string,
) types.Recommendations {
	out := make(types.Recommendations)
	for _, userID := range sortedKeys(users) {
		if ctx.Err() != nil {
			break
		}
		recs := r.userRecommendations(ctx, userID, users[userID], interleaved[userID], paperIDs)
		if len(recs) == 0 {
			continue
		}
		r.logger.Info().Str("user_id", userID).Int("count", len(recs)).Msg("recommended papers")
		out[userID] = recs
	}
	return out
}

func (r *Recommender) userRecommendations(
	ctx context.Context,
	userID string,
	user types.User,
	shown []string,
	paperIDs []string,
) []types.Recommendation {
	logger := r.logger.With().Str("user_id", userID).Logger()

	s2ID := user.S2ID()
	if s2ID == "" {
		logger.Info().Msg("skipped: no Semantic Scholar profile")
		return nil
	}
	if _, err := r.scholar.Author(ctx, s2ID); err != nil {
		if scholar.IsNotFound(err) {
			logger.Warn().Str("s2_id", s2ID).Msg("skipped: Semantic Scholar profile not found")
			return nil
		}
		logger.Error().Err(err).Str("s2_id", s2ID).Msg("skipped: unable to get author details")
		return nil
	}

	exclude := make(map[string]bool, len(shown))
	for _, id := range shown {
		exclude[id] = true
	}

	var ranked []types.Recommendation
	for _, batch := range Chunks(paperIDs, r.cfg.PaperBatchSize) {
		recs, err := r.strategy.Rank(ctx, s2ID, batch)
		if err != nil {
			logger.Error().Err(err).Str("s2_id", s2ID).Msg("skipped: ranking failed")
			return nil
		}
		for _, rec := range recs {
			if rec.Score > 0 && !exclude[rec.ArticleID] {
				ranked = append(ranked, rec)
			}
		}
	}
	return Top(ranked, r.cfg.MaxRecommendations)
}

// Top sorts recs by descending score, breaking ties by ascending article
// ID, and returns at most n of them.
func Top(recs []types.Recommendation, n int) []types.Recommendation {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ArticleID < recs[j].ArticleID
	})
	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

// RunOptions controls Run.
type RunOptions struct {
	// DryRun computes recommendations without submitting them.
	DryRun bool
}

// RunResult summarizes a Run.
type RunResult struct {
	Users           int
	Recommendations types.Recommendations
	Duration        time.Duration
}

// Run recommends papers for every digest user: it fetches the candidates,
// prepares the strategy, then walks the users batch by batch, submitting
// each batch's non-empty recommendations.
func (r *Recommender) Run(ctx context.Context, conn Connector, opts RunOptions) (RunResult, error) {
	start := time.Now()
	result := RunResult{Recommendations: make(types.Recommendations)}

	paperIDs, err := conn.ArticleIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("fetching candidate articles: %w", err)
	}
	total, err := conn.UserCount(ctx)
	if err != nil {
		return result, fmt.Errorf("fetching user count: %w", err)
	}
	r.logger.Info().Int("users", total).Int("candidates", len(paperIDs)).Msg("recommending papers")

	if err := r.strategy.Prepare(ctx, paperIDs); err != nil {
		return result, fmt.Errorf("preparing %s strategy: %w", r.strategy.Name(), err)
	}

	for result.Users < total {
		userIDs, err := conn.UserIDs(ctx, result.Users)
		if err != nil {
			return result, fmt.Errorf("fetching user IDs at offset %d: %w", result.Users, err)
		}
		if len(userIDs) == 0 {
			r.logger.Warn().Int("offset", result.Users).Int("users", total).Msg("user list ended early")
			break
		}
		users, err := conn.UserInfo(ctx, userIDs)
		if err != nil {
			return result, fmt.Errorf("fetching user info: %w", err)
		}
		interleaved, err := conn.InterleavedArticles(ctx, userIDs)
		if err != nil {
			return result, fmt.Errorf("fetching interleaved articles: %w", err)
		}

		recs := r.Recommendations(ctx, users, interleaved, paperIDs)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if len(recs) > 0 && !opts.DryRun {
			if err := conn.SubmitRecommendations(ctx, recs); err != nil {
				return result, fmt.Errorf("submitting recommendations: %w", err)
			}
		}
		for id, list := range recs {
			result.Recommendations[id] = list
		}

		result.Users += len(userIDs)
		r.logger.Info().Int("processed", result.Users).Int("users", total).Msg("processed users")
	}

	result.Duration = time.Since(start)
	r.logger.Info().
		Int("recommended_users", len(result.Recommendations)).
		Dur("duration", result.Duration).
		Bool("dry_run", opts.DryRun).
		Msg("finished recommending")
	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
