// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-recommender/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the Semantic Scholar response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached and expired responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(store *cache.Store) error {
			st, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\nexpired: %d\nttl:     %s\n", st.Entries, st.Expired, store.TTL())
			return nil
		})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired responses from the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(store *cache.Store) error {
			n, err := store.Purge(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info().Int64("removed", n).Msg("purged expired cache entries")
			return nil
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

// withCache opens the configured response cache for the duration of fn.
func withCache(fn func(*cache.Store) error) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	store, err := cache.Open(cfg.Scholar.CachePath, cfg.Scholar.CacheTTL)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
