package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
	"github.com/custodia-labs/taxclause/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// mimeTypes maps file extensions to the MIME types normalisers register for.
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/plain",
	".html": "text/html",
	".htm":  "text/html",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// MIMETypeFor returns the MIME type for path's extension, or "" if unknown.
func MIMETypeFor(path string) string {
	return mimeTypes[strings.ToLower(filepath.Ext(path))]
}

// ContractIDFor derives a contract ID from a file path: the base name
// without its extension.
func ContractIDFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IngestService reads contract files, normalises them to text and indexes
// the result through the contract service.
type IngestService struct {
	contracts   driving.ContractService
	normalisers driven.NormaliserRegistry
}

// NewIngestService creates a new ingest service.
func NewIngestService(contracts driving.ContractService, normalisers driven.NormaliserRegistry) *IngestService {
	return &IngestService{
		contracts:   contracts,
		normalisers: normalisers,
	}
}

// Supports reports whether path has a known extension and is not hidden.
func (s *IngestService) Supports(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return MIMETypeFor(path) != ""
}

// IngestFile normalises one file and indexes it under id, or under the
// file name without extension when id is empty.
func (s *IngestService) IngestFile(ctx context.Context, path, id string) (string, error) {
	if s.contracts == nil || s.normalisers == nil {
		return "", domain.ErrNotImplemented
	}

	mimeType := MIMETypeFor(path)
	if mimeType == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrUnsupportedType)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := s.normalisers.Normalise(ctx, &domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
	})
	if err != nil {
		return "", fmt.Errorf("normalising %s: %w", path, err)
	}

	if id == "" {
		id = ContractIDFor(path)
	}

	contract := domain.Contract{
		ID:      id,
		Title:   result.Title,
		Content: result.Content,
	}
	if err := s.contracts.IndexContract(ctx, contract); err != nil {
		return "", err
	}

	return id, nil
}

// IngestDir indexes every supported, non-hidden regular file directly
// under dir. Subdirectories are not descended into. A file that fails is
// skipped and its error joined into the returned error; the IDs of every
// file indexed are returned either way. Files sharing a base name, such as
// a.txt and a.md, map to one contract and the last one read wins.
func (s *IngestService) IngestDir(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var (
		ids    []string
		failed []error
		from   = make(map[string]string)
	)
	for _, entry := range entries {
		if entry.IsDir() || !s.Supports(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return ids, err
		}

		path := filepath.Join(dir, entry.Name())
		id, err := s.IngestFile(ctx, path, "")
		if err != nil {
			failed = append(failed, err)
			continue
		}

		if prev, ok := from[id]; ok {
			logger.Warn("%s replaces %s as contract %q", path, prev, id)
		} else {
			ids = append(ids, id)
		}
		from[id] = path
	}

	return ids, errors.Join(failed...)
}
