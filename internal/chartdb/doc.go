// Package chartdb persists chart records, artist identities, and ingestion
// progress in SQLite.
//
// The Store owns the database connection, schema initialization, and the
// exclusive lock that keeps a single ingestion process attached to a database
// file. Three kinds of state live here:
//
//   - artists: the Artist Registry. Names are canonicalized before lookup and
//     the UNIQUE constraint guarantees one id per canonical name.
//   - tracks_<year>: one table per supported chart year, addressed through the
//     typed Year key. Every statement for a year table is a fixed string chosen
//     at lookup time.
//   - cursor_log: the append-only Progress Cursor log. The newest row for a year
//     is authoritative.
//
// Writes that must commit together (registry inserts, record inserts, cursor
// advance) go through a Tx obtained from Store.Begin. Schema changes bump the
// version in schema.go; users delete the database to adopt the new schema.
package chartdb
