// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

// collabFixture builds a user "u" whose collaborator "c" cited Alice twice
// (once alongside Xavier) in a recent paper.
func collabFixture() *fakeScholar {
	f := newFakeScholar()
	f.addAuthor("u", "Uma",
		types.Paper{PaperID: "up1", Year: 2025, Authors: []types.AuthorRef{ref("u", "Uma"), ref("c", "Carol")}},
	)
	f.addAuthor("c", "Carol",
		types.Paper{PaperID: "cp1", Year: 2024, References: []types.Paper{
			citing(ref("a", "Alice")),
			citing(ref("a", "Alice"), ref("x", "Xavier")),
		}},
	)
	f.addCandidate("2401.00001", ref("a", "Alice"), ref("b", "Bob"))
	return f
}

func TestCollabScoreFromCollaboratorCitations(t *testing.T) {
	s := NewCollabStrategy(collabFixture(), testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00001")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "2401.00001", rec.ArticleID)
	assert.Equal(t, 2.0, rec.Score)
	assert.Equal(t,
		"This article is authored by Alice, who has been cited by your previous collaborator Carol 2 times in the last 5 years.",
		rec.Explanation)
}

func TestCollabPaperWithoutAuthors(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00002")
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00002")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCollabUserIsAuthor(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00003", ref("a", "Alice"), ref("u", "Uma"))
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00003")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCollabIgnoresCollaboratorWhoIsAuthor(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00004", ref("a", "Alice"), ref("c", "Carol"))
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00004")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Zero(t, rec.Score)
	assert.Empty(t, rec.Explanation)
}

func TestCollabSingleCitation(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00005", ref("x", "Xavier"))
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00005")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1.0, rec.Score)
	assert.Contains(t, rec.Explanation, "Carol 1 time in the last 5 years")
}

func TestCollabCollaboratorTieGoesToLowestID(t *testing.T) {
	f := newFakeScholar()
	f.addAuthor("u", "Uma",
		types.Paper{PaperID: "up1", Authors: []types.AuthorRef{ref("u", "Uma"), ref("c2", "Dana"), ref("c1", "Carol")}},
	)
	for _, id := range []string{"c1", "c2"} {
		f.addAuthor(id, id, types.Paper{PaperID: id + "-p", References: []types.Paper{citing(ref("a", "Alice"))}})
	}
	f.addCandidate("2401.00006", ref("a", "Alice"))
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00006")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1.0, rec.Score)
	assert.Contains(t, rec.Explanation, "collaborator Carol")
}

func TestCollabMostCitedAuthorTieGoesToFirstAuthor(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00007", ref("x", "Xavier"), ref("y", "Yara"))
	f.addAuthor("c", "Carol",
		types.Paper{PaperID: "cp1", References: []types.Paper{citing(ref("y", "Yara")), citing(ref("x", "Xavier"))}},
	)
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00007")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Contains(t, rec.Explanation, "authored by Xavier")
}

func TestCollabCountsPapersOfAnyAge(t *testing.T) {
	f := newFakeScholar()
	f.addAuthor("u", "Uma",
		types.Paper{PaperID: "up-2012", Year: 2012, Authors: []types.AuthorRef{ref("u", "Uma"), ref("c", "Carol")}},
		types.Paper{PaperID: "up-undated", Authors: []types.AuthorRef{ref("u", "Uma"), ref("d", "Dev")}},
	)
	f.addAuthor("c", "Carol",
		types.Paper{PaperID: "cp-2012", Year: 2012, References: []types.Paper{
			citing(ref("a", "Alice")),
			citing(ref("a", "Alice")),
		}},
	)
	f.addAuthor("d", "Dev")
	f.addCandidate("2401.00001", ref("a", "Alice"), ref("b", "Bob"))
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())
	ctx := context.Background()

	collaborators, err := s.Collaborators(ctx, "u")
	require.NoError(t, err)
	assert.Contains(t, collaborators, "c")
	assert.Contains(t, collaborators, "d")
	assert.NotContains(t, collaborators, "u")

	rec, err := s.ScorePaper(ctx, "u", "2401.00001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2.0, rec.Score)
	assert.Equal(t,
		"This article is authored by Alice, who has been cited by your previous collaborator Carol 2 times in the last 5 years.",
		rec.Explanation)
}

func TestCollabSkipsCollaboratorWithoutCitationTable(t *testing.T) {
	f := collabFixture()
	f.addAuthor("u", "Uma",
		types.Paper{PaperID: "up1", Authors: []types.AuthorRef{ref("u", "Uma"), ref("c", "Carol"), ref("ghost", "Ghost")}},
	)
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2.0, rec.Score)
	assert.Contains(t, rec.Explanation, "collaborator Carol")
}

func TestCollabOnlyFailingCollaboratorScoresZero(t *testing.T) {
	f := collabFixture()
	f.addAuthor("u", "Uma",
		types.Paper{PaperID: "up1", Authors: []types.AuthorRef{ref("u", "Uma"), ref("ghost", "Ghost")}},
	)
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	rec, err := s.ScorePaper(context.Background(), "u", "2401.00001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Zero(t, rec.Score)
	assert.Empty(t, rec.Explanation)
}

func TestCollabRankDropsUnscorablePapers(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00002")
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	recs, err := s.Rank(context.Background(), "u", []string{"2401.00001", "missing", "2401.00002"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2401.00001", recs[0].ArticleID)
}

func TestCollabBuildsTablesOnce(t *testing.T) {
	f := collabFixture()
	f.addCandidate("2401.00005", ref("x", "Xavier"))
	s := NewCollabStrategy(f, testStrategyConfig(), nopLogger())

	ids := []string{"2401.00001", "2401.00005", "2401.00001", "2401.00005"}
	_, err := s.Rank(context.Background(), "u", ids)
	require.NoError(t, err)

	assert.Equal(t, 1, f.authorCount("u"))
	assert.Equal(t, 1, f.authorCount("c"))
}
