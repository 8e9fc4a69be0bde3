// Package domain defines the core business entities for taxclause.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Contract: Raw contract text stored under a caller-supplied identifier
//   - ClauseMatch: A clause occurrence recognised in contract text
//   - Issue: A tax risk derived from the recognised clauses
//   - Evaluation: Summary flags, clauses and issues for one contract
//   - RawDocument: Opaque bytes read from a file before normalisation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
