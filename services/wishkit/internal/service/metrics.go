package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesTotal counts vote attempts by action and outcome.
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishkit_votes_total",
			Help: "Total number of vote attempts by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// SubmissionsTotal counts wish submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishkit_submissions_total",
			Help: "Total number of wish submissions by outcome",
		},
		[]string{"outcome"},
	)

	// RefreshesTotal counts list refreshes by outcome (applied, stale, failed).
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishkit_refreshes_total",
			Help: "Total number of wish list refreshes by outcome",
		},
		[]string{"outcome"},
	)

	// RefreshDuration observes the duration of wish list fetches.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wishkit_refresh_duration_seconds",
			Help:    "Duration of wish list fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
