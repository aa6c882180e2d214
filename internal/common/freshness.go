// Package common provides shared utilities for Moneta
package common

import "time"

// Freshness TTLs for ledger captures. The ledger is fed by month-end
// exports, so a capture older than one cycle plus slack means the export
// pipeline has not run.
const (
	FreshnessFXCapture      = 45 * 24 * time.Hour
	FreshnessBalanceCapture = 45 * 24 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
