// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-recommender/internal/digest"
	"github.com/pdiddy/paper-recommender/internal/secrets"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// setDefaults registers every config key so that environment variables are
// picked up by Unmarshal even when no config file sets the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scholar.api_key", "")
	v.SetDefault("scholar.base_url", "")
	v.SetDefault("scholar.max_requests", types.DefaultMaxRequests)
	v.SetDefault("scholar.window", types.DefaultWindow)
	v.SetDefault("scholar.cache_path", types.DefaultCachePath)
	v.SetDefault("scholar.cache_ttl", types.DefaultCacheTTL)
	v.SetDefault("scholar.max_paper_age", types.DefaultMaxPaperAge)
	v.SetDefault("scholar.timeout", 30*time.Second)
	v.SetDefault("scholar.user_agent", "paper-recommender/"+version)

	v.SetDefault("digest.base_url", digest.DefaultBaseURL)
	v.SetDefault("digest.api_key", "")
	v.SetDefault("digest.max_retries", types.DefaultMaxRetries)
	v.SetDefault("digest.timeout", 30*time.Second)
	v.SetDefault("digest.user_agent", "paper-recommender/"+version)

	v.SetDefault("recommender.strategy", string(types.StrategyCollab))
	v.SetDefault("recommender.max_recommendations", types.DefaultMaxRecommendations)
	v.SetDefault("recommender.paper_batch_size", types.DefaultPaperBatchSize)
	v.SetDefault("recommender.score_chunk_size", types.DefaultScoreChunkSize)
	v.SetDefault("recommender.precompute_workers", types.DefaultPrecomputeWorkers)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// loadConfig decodes the merged flag, environment and file settings. API
// keys left empty are filled from the secrets directory.
func loadConfig(v *viper.Viper, s secrets.Set) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	cfg.Scholar.APIKey = s.Resolve(secrets.SemanticScholarAPIKey, cfg.Scholar.APIKey)
	cfg.Digest.APIKey = s.Resolve(secrets.ArxivDigestAPIKey, cfg.Digest.APIKey)

	cfg.Scholar = cfg.Scholar.WithDefaults()
	cfg.Recommender = cfg.Recommender.WithDefaults()

	switch cfg.Recommender.Strategy {
	case types.StrategyCollab, types.StrategyVenue:
	default:
		return cfg, fmt.Errorf("unknown strategy %q (want %q or %q)",
			cfg.Recommender.Strategy, types.StrategyCollab, types.StrategyVenue)
	}
	return cfg, nil
}
