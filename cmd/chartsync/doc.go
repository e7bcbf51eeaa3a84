// Package main hosts the chartsync CLI entrypoint and command graph.
//
// Commands resolve configuration once, open the chart database under its
// exclusive lock, and hand off to the internal packages: ingest for batch
// runs, aggregate and report for statistics, and source for probing the
// configured chart sources. Keep this package lean; behaviour belongs in the
// internal packages and is only surfaced here.
package main
