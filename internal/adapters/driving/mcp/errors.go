// Package mcp provides an MCP (Model Context Protocol) server adapter for
// taxclause. It lets AI assistants index contracts and review their tax
// clauses.
package mcp

import "errors"

// ErrMissingContractService is returned when the contract service is not provided.
var ErrMissingContractService = errors.New("mcp: contract service is required")
