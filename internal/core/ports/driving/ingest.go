package driving

import "context"

// IngestService reads contract files from disk and indexes their text.
type IngestService interface {
	// IngestFile normalises one file and indexes it.
	// An empty id defaults to the file name without its extension.
	// Returns the ID the contract was indexed under.
	IngestFile(ctx context.Context, path, id string) (string, error)

	// IngestDir indexes every supported, non-hidden file directly under dir.
	// Returns the indexed IDs in directory order.
	IngestDir(ctx context.Context, dir string) ([]string, error)

	// Supports reports whether a file can be ingested, judged by its extension.
	Supports(path string) bool
}
