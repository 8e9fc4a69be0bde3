package services

import (
	"fmt"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorageBackend = "storage.backend"
	keySQLiteDir      = "storage.sqlite.dir"
	keyPostgresDSN    = "storage.postgres.dsn"
	keyRedisAddr      = "storage.redis.addr"
	keyRedisPassword  = "storage.redis.password"
	keyRedisDB        = "storage.redis.db"
	keyRedisPrefix    = "storage.redis.prefix"
	keyServerAddr     = "server.addr"
	keyServerRate     = "server.rate_limit"
	keyServerBurst    = "server.burst"
	keyWatchDir       = "watch.dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend:       domain.StorageBackend(s.getString(keyStorageBackend, defaults.Storage.Backend.String())),
			SQLiteDir:     s.configStore.GetString(keySQLiteDir), // Empty selects the default data directory
			PostgresDSN:   s.configStore.GetString(keyPostgresDSN),
			RedisAddr:     s.getString(keyRedisAddr, defaults.Storage.RedisAddr),
			RedisPassword: s.configStore.GetString(keyRedisPassword),
			RedisDB:       s.configStore.GetInt(keyRedisDB),
			RedisPrefix:   s.getString(keyRedisPrefix, defaults.Storage.RedisPrefix),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, defaults.Server.Addr),
			RateLimit: s.getFloat(keyServerRate, defaults.Server.RateLimit),
			Burst:     s.getInt(keyServerBurst, defaults.Server.Burst),
		},
		Watch: domain.WatchSettings{
			Dir: s.configStore.GetString(keyWatchDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keySQLiteDir, settings.Storage.SQLiteDir},
		{keyPostgresDSN, settings.Storage.PostgresDSN},
		{keyRedisAddr, settings.Storage.RedisAddr},
		{keyRedisDB, settings.Storage.RedisDB},
		{keyRedisPrefix, settings.Storage.RedisPrefix},
		{keyServerAddr, settings.Server.Addr},
		{keyServerRate, settings.Server.RateLimit},
		{keyServerBurst, settings.Server.Burst},
		{keyWatchDir, settings.Watch.Dir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Storage.RedisPassword != "" {
		if err := s.configStore.Set(keyRedisPassword, settings.Storage.RedisPassword); err != nil {
			return fmt.Errorf("save %s: %w", keyRedisPassword, err)
		}
	}

	return nil
}

// SetStorageBackend updates the storage backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("storage backend %q: %w", backend, domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyStorageBackend, backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	return nil
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch settings.Storage.Backend {
	case domain.BackendPostgres:
		if settings.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage backend %q requires %s to be set: %w",
				settings.Storage.Backend, keyPostgresDSN, domain.ErrInvalidInput)
		}
	case domain.BackendMemory, domain.BackendSQLite, domain.BackendRedis:
	default:
		return fmt.Errorf("invalid storage backend %q: %w", settings.Storage.Backend, domain.ErrInvalidInput)
	}

	if settings.Server.Burst < 1 && settings.Server.RateLimit > 0 {
		return fmt.Errorf("%s must be at least 1 when rate limiting: %w", keyServerBurst, domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
