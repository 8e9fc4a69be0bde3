// Package connectors provides sources that feed contracts into the
// ingest service. The filesystem connector watches a directory and
// re-indexes contract files as they change.
package connectors
