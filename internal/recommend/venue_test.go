// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

func venuePapers(prefix, venue string, n int) []types.Paper {
	papers := make([]types.Paper, n)
	for i := range papers {
		papers[i] = types.Paper{PaperID: prefix + string(rune('a'+i)), Venue: venue, Year: 2025}
	}
	return papers
}

// venueFixture builds a user "u" who published three times at ACL, an
// author "a" with the same profile and an author "n" who only publishes at
// NeurIPS.
func venueFixture() *fakeScholar {
	f := newFakeScholar()
	f.addAuthor("u", "Uma", venuePapers("u", "ACL", 3)...)
	f.addAuthor("a", "Alice", venuePapers("a", "ACL", 2)...)
	f.addAuthor("n", "Nina", venuePapers("n", "NeurIPS", 3)...)
	f.addCandidate("2401.00001", ref("n", "Nina"))
	f.addCandidate("2401.00002", ref("n", "Nina"), ref("a", "Alice"))
	return f
}

func TestVenueAuthorVector(t *testing.T) {
	f := newFakeScholar()
	f.addAuthor("u", "Uma",
		types.Paper{PaperID: "p1", Venue: "ACL"},
		types.Paper{PaperID: "p2", Venue: "  ACL "},
		types.Paper{PaperID: "p3", Venue: "EMNLP"},
		types.Paper{PaperID: "p4"},
		types.Paper{PaperID: "p5", Venue: "EMNLP", Year: 2001},
	)
	s := NewVenueStrategy(f, testStrategyConfig(), nopLogger())

	vec, err := s.AuthorVector(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 3, vec[0]+vec[1])
	assert.ElementsMatch(t, []int{2, 1}, []int(vec))
	assert.Equal(t, 2, s.Venues())
}

func TestVenueDisjointVenuesScoreZero(t *testing.T) {
	s := NewVenueStrategy(venueFixture(), testStrategyConfig(), nopLogger())
	ctx := context.Background()

	userVec, err := s.AuthorVector(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, Vector{3}, userVec)

	ninaVec, err := s.AuthorVector(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, Vector{0, 3}, ninaVec)

	rec, err := s.ScorePaper(ctx, "u", userVec, "2401.00001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Zero(t, rec.Score)
	assert.Empty(t, rec.Explanation)
}

func TestVenueBestAuthorWins(t *testing.T) {
	s := NewVenueStrategy(venueFixture(), testStrategyConfig(), nopLogger())
	ctx := context.Background()

	userVec, err := s.AuthorVector(ctx, "u")
	require.NoError(t, err)

	rec, err := s.ScorePaper(ctx, "u", userVec, "2401.00002")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.InDelta(t, 1.0, rec.Score, 1e-12)
	assert.Equal(t,
		"This article is authored by Alice, who has published in venues similar to yours in the last 5 years.",
		rec.Explanation)
}

func TestVenueUnscorablePapers(t *testing.T) {
	f := venueFixture()
	f.addCandidate("2401.00003")
	f.addCandidate("2401.00004", ref("a", "Alice"), ref("u", "Uma"))
	f.addCandidate("2401.00005", ref("ghost", "Ghost"))
	s := NewVenueStrategy(f, testStrategyConfig(), nopLogger())
	ctx := context.Background()

	userVec, err := s.AuthorVector(ctx, "u")
	require.NoError(t, err)

	for _, id := range []string{"2401.00003", "2401.00004", "2401.00005"} {
		rec, err := s.ScorePaper(ctx, "u", userVec, id)
		require.NoError(t, err, id)
		assert.Nil(t, rec, id)
	}
}

func TestVenueVectorBuiltOnceUnderConcurrency(t *testing.T) {
	f := venueFixture()
	f.delay = 20 * time.Millisecond
	s := NewVenueStrategy(f, testStrategyConfig(), nopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := s.AuthorVector(context.Background(), "u")
			assert.NoError(t, err)
			assert.Equal(t, Vector{3}, vec)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.authorCount("u"))
}

func TestVenuePrepareBuildsCandidateVectors(t *testing.T) {
	f := venueFixture()
	s := NewVenueStrategy(f, testStrategyConfig(), nopLogger())
	ctx := context.Background()

	require.NoError(t, s.Prepare(ctx, []string{"2401.00001", "2401.00002", "missing"}))

	assert.Equal(t, 1, f.authorCount("n"))
	assert.Equal(t, 1, f.authorCount("a"))
	assert.Equal(t, 2, s.papers.Len())

	recs, err := s.Rank(ctx, "u", []string{"2401.00001", "2401.00002"})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, 1, f.authorCount("n"))
	assert.Equal(t, 1, f.authorCount("a"))
}

func TestVenueRankFailsWithoutUserVector(t *testing.T) {
	s := NewVenueStrategy(venueFixture(), testStrategyConfig(), nopLogger())

	_, err := s.Rank(context.Background(), "nobody", []string{"2401.00001"})
	assert.Error(t, err)
}

func TestVenuePrepareHonorsCancellation(t *testing.T) {
	s := NewVenueStrategy(venueFixture(), testStrategyConfig(), nopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Prepare(ctx, []string{"2401.00001"}), context.Canceled)
}
