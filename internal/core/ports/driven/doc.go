// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContractStore: Raw contract text keyed by ID (memory, SQLite,
//     PostgreSQL or Redis)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - NormaliserRegistry: File ingestion. Without it only raw text can be indexed.
//   - ConfigStore: Application configuration. Without it defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
