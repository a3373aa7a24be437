// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats counts client activity. One Stats may be shared by several clients
// to get process-wide totals; the zero value is ready to use.
type Stats struct {
	hits     atomic.Int64
	misses   atomic.Int64
	requests atomic.Int64
	errors   atomic.Int64
}

// NewStats returns an empty Stats.
func NewStats() *Stats { return &Stats{} }

// Hits returns the number of lookups served from the response cache.
func (s *Stats) Hits() int64 { return s.hits.Load() }

// Misses returns the number of lookups that went to the network.
func (s *Stats) Misses() int64 { return s.misses.Load() }

// Requests returns the number of lookups issued (hits plus misses).
func (s *Stats) Requests() int64 { return s.requests.Load() }

// Errors returns the number of failed lookups.
func (s *Stats) Errors() int64 { return s.errors.Load() }

func (s *Stats) hit() {
	s.hits.Add(1)
	s.requests.Add(1)
}

func (s *Stats) miss() {
	s.misses.Add(1)
	s.requests.Add(1)
}

func (s *Stats) fail() { s.errors.Add(1) }

// Collectors exposes the counters as Prometheus metrics. The caller
// registers them.
func (s *Stats) Collectors() []prometheus.Collector {
	counter := func(name, help string, read func() int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "paper_recommender",
			Subsystem: "scholar",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read()) })
	}
	return []prometheus.Collector{
		counter("cache_hits_total", "Semantic Scholar lookups served from cache", s.Hits),
		counter("cache_misses_total", "Semantic Scholar lookups sent to the API", s.Misses),
		counter("requests_total", "Semantic Scholar lookups issued", s.Requests),
		counter("errors_total", "Semantic Scholar lookups that failed", s.Errors),
	}
}
