package driving

import "github.com/custodia-labs/taxclause/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults filled in.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetStorageBackend updates the storage backend.
	SetStorageBackend(backend domain.StorageBackend) error

	// Validate checks that the configured backend has what it needs.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
