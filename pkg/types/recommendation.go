// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"net/url"
	"strings"
)

// User is the profile data the digest service returns for a user. Only the
// fields the recommenders read are decoded.
type User struct {
	Name                   string   `json:"name" yaml:"name"`
	SemanticScholarProfile string   `json:"semantic_scholar_profile" yaml:"semantic_scholar_profile"`
	Topics                 []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// S2ID extracts the Semantic Scholar author ID from the user's profile link,
// which is the last segment of the URL path. It returns "" when the user has
// no profile link.
func (u User) S2ID() string {
	raw := strings.TrimSpace(u.SemanticScholarProfile)
	if raw == "" {
		return ""
	}
	path := raw
	if parsed, err := url.Parse(raw); err == nil {
		path = parsed.Path
	}
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}

// Recommendation is a scored candidate paper for one user.
// A zero Score always has an empty Explanation.
type Recommendation struct {
	ArticleID   string  `json:"article_id" yaml:"article_id"`
	Score       float64 `json:"score" yaml:"score"`
	Explanation string  `json:"explanation" yaml:"explanation"`
}

// Recommendations maps a digest user ID to that user's ranked recommendations.
type Recommendations map[string][]Recommendation
