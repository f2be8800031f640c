// Package metrics provides constants used across metric definitions.
package metrics

import "time"

// Status label values shared by report metrics.
const (
	// StatusSuccess marks a completed operation.
	StatusSuccess = "success"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// Histogram bucket configuration.
const (
	// BucketStart100us is the starting bucket for 0.1ms histograms (0.1ms to ~400ms range).
	BucketStart100us = 0.0001
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)

// Time and conversion constants.
const (
	// ShutdownTimeout is the timeout for graceful shutdown operations.
	ShutdownTimeout = 5 * time.Second
	// ReadHeaderTimeout bounds how long the metrics server waits for request headers.
	ReadHeaderTimeout = 10 * time.Second
)
