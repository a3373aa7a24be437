// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-recommender/internal/digest"
	"github.com/pdiddy/paper-recommender/internal/ratelimit"
	"github.com/pdiddy/paper-recommender/internal/recommend"
	"github.com/pdiddy/paper-recommender/internal/scholar"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

var _ recommend.Connector = (*digest.Client)(nil)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score the digest's candidate papers for every user and submit the results",
	Long: `Recommend fetches the candidate articles and the users of the digest, ranks
the candidates for each user with a Semantic Scholar profile and submits up to
max_recommendations papers per user.

With --dry-run nothing is submitted; combine it with --output to inspect the
recommendations as YAML.`,
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.String("strategy", "", "scoring strategy: collab or venue")
	f.Bool("dry-run", false, "compute recommendations without submitting them")
	f.String("output", "", "write the recommendations to this YAML file")
	f.String("metrics-file", "", "write Semantic Scholar client metrics to this file in Prometheus text format")

	_ = viper.BindPFlag("recommender.strategy", f.Lookup("strategy"))

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	if cfg.Digest.APIKey == "" && !dryRun {
		logger.Warn().Msg("no arXivDigest API key configured; submissions will be rejected")
	}

	ctx := cmd.Context()
	stats := scholar.NewStats()
	limiter := ratelimit.NewWindow(cfg.Scholar.MaxRequests, cfg.Scholar.Window)
	conn := digest.New(cfg.Digest, digest.WithLogger(logger))

	var result recommend.RunResult
	runErr := scholar.With(cfg.Scholar, func(client *scholar.Client) error {
		logger.Info().Str("endpoint", client.BaseURL()).Str("cache", cfg.Scholar.CachePath).Msg("semantic scholar client ready")

		strategy := newStrategy(cfg, client, logger)
		r := recommend.New(strategy, client, cfg.Recommender, logger)
		result, err = r.Run(ctx, conn, recommend.RunOptions{DryRun: dryRun})
		return err
	}, scholar.WithLimiter(limiter), scholar.WithStats(stats), scholar.WithLogger(logger))

	logger.Info().
		Int64("cache_hits", stats.Hits()).
		Int64("cache_misses", stats.Misses()).
		Int64("requests", stats.Requests()).
		Int64("errors", stats.Errors()).
		Int("rate_window_requests", limiter.InWindow()).
		Msg("semantic scholar usage")

	if metricsFile != "" {
		if err := writeMetrics(metricsFile, stats); err != nil {
			logger.Error().Err(err).Str("file", metricsFile).Msg("writing metrics failed")
		}
	}
	if runErr != nil {
		return runErr
	}

	if output != "" {
		if err := writeRecommendations(output, result.Recommendations); err != nil {
			return err
		}
		logger.Info().Str("file", output).Int("users", len(result.Recommendations)).Msg("wrote recommendations")
	}
	return nil
}

// newStrategy builds the configured scoring strategy. cfg must have passed
// loadConfig validation.
//
//nolint:gocritic // zerolog.Logger is passed by value
func newStrategy(cfg types.Config, s recommend.Scholar, logger zerolog.Logger) recommend.Strategy {
	sc := recommend.StrategyConfig{
		MaxPaperAge: cfg.Scholar.MaxPaperAge,
		ChunkSize:   cfg.Recommender.ScoreChunkSize,
		Workers:     cfg.Recommender.PrecomputeWorkers,
	}
	if cfg.Recommender.Strategy == types.StrategyVenue {
		return recommend.NewVenueStrategy(s, sc, logger)
	}
	return recommend.NewCollabStrategy(s, sc, logger)
}

// writeRecommendations dumps recs as YAML, creating parent directories.
func writeRecommendations(path string, recs types.Recommendations) error {
	data, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeMetrics writes the client counters in the node_exporter textfile format.
func writeMetrics(path string, stats *scholar.Stats) error {
	reg := prometheus.NewRegistry()
	for _, c := range stats.Collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
