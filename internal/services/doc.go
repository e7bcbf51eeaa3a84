// Package services defines shared utilities consumed by the ingestion pipeline
// and its external source integrations.
//
// Key responsibilities:
//   - Context helpers that stamp ingestion run IDs, target years, and source
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     per-entry skips, per-batch aborts, or fatal invariant violations.
//
// Use these helpers when wiring new sources or pipeline stages so operational
// behaviour (error handling, observability, retries) stays uniform.
package services
