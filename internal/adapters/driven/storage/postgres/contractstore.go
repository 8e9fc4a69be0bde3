// Package postgres provides a PostgreSQL implementation of driven.ContractStore.
//
// The store reads and writes a contracts(id, title, content) table. Call
// EnsureSchema once to create it on a fresh database.
//
// List orders IDs by byte value (COLLATE "C"), independent of the database
// locale. PostgreSQL TEXT cannot
// hold a NUL byte; a contract whose ID, title or content contains one is
// rejected by the server on Put.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
)

// Ensure ContractStore implements the interface.
var _ driven.ContractStore = (*ContractStore)(nil)

const selectAll = `SELECT id, title, content FROM contracts ORDER BY id COLLATE "C"`

const schema = `
	CREATE TABLE IF NOT EXISTS contracts (
		id      VARCHAR PRIMARY KEY,
		title   VARCHAR NOT NULL DEFAULT '',
		content TEXT NOT NULL
	)
`

// Open connects to PostgreSQL using a lib/pq connection string and
// verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn: %w", domain.ErrInvalidInput)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

// ContractStore stores contracts in PostgreSQL.
type ContractStore struct {
	db *sql.DB
}

// NewContractStore creates a store over an open database handle.
func NewContractStore(db *sql.DB) *ContractStore {
	return &ContractStore{db: db}
}

// EnsureSchema creates the contracts table if it does not exist.
func (s *ContractStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating contracts table: %w", err)
	}
	return nil
}

// Put stores or replaces a contract.
func (s *ContractStore) Put(ctx context.Context, contract domain.Contract) error {
	query := `
		INSERT INTO contracts (id, title, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content
	`
	if _, err := s.db.ExecContext(ctx, query, contract.ID, contract.Title, contract.Content); err != nil {
		return fmt.Errorf("saving contract: %w", err)
	}
	return nil
}

// Get retrieves a contract by ID.
func (s *ContractStore) Get(ctx context.Context, id string) (*domain.Contract, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, content FROM contracts WHERE id = $1", id)

	var c domain.Contract
	err := row.Scan(&c.ID, &c.Title, &c.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}
	return &c, nil
}

// List returns all contracts ordered by ID, byte-wise.
func (s *ContractStore) List(ctx context.Context) ([]domain.Contract, error) {
	rows, err := s.db.QueryContext(ctx, selectAll)
	if err != nil {
		return nil, fmt.Errorf("querying contracts: %w", err)
	}
	defer rows.Close()

	contracts := make([]domain.Contract, 0)
	for rows.Next() {
		var c domain.Contract
		if err := rows.Scan(&c.ID, &c.Title, &c.Content); err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contracts: %w", err)
	}
	return contracts, nil
}
