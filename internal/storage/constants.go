package db

import "time"

// Database connection constants.
const (
	connectionRetrySleep = 2 * time.Second
	maxConnectionRetries = 10
)

// Default scores recorded for a freshly selected item. History ranking
// sums the three, so the exact split only matters relative to itself.
const (
	DefaultEngagementScore  = 0.8
	DefaultPersistenceScore = 0.7
	DefaultCorrelationScore = 0.6
)
