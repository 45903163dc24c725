// Package storage defines the persistence interfaces for simulation
// output.
//
// It provides a high-level abstraction for storing run summaries and
// telemetry events. Implementations of these interfaces (bbolt and
// sqlite) live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage
