// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The clause engine lives here too: an immutable pattern catalogue
// (clauses.go) and a declarative rule set with CEL conditions (rules.go).
package services
