// Package ingest drives incremental, resumable ingestion of one year's chart
// source into the chart database.
//
// A batch reads from the persisted cursor, consumes up to the batch size of
// source positions, normalizes each entry, and writes the resulting records.
// Registry inserts, record inserts, and the cursor advance share one
// transaction: a batch either lands completely or leaves no trace. Skipped
// entries still consume their position so a resumed run never revisits them.
package ingest
