package domain

// StorageBackend selects the ContractStore implementation.
type StorageBackend string

// Supported storage backends.
const (
	BackendMemory   StorageBackend = "memory"
	BackendSQLite   StorageBackend = "sqlite"
	BackendPostgres StorageBackend = "postgres"
	BackendRedis    StorageBackend = "redis"
)

// String returns the backend name.
func (b StorageBackend) String() string {
	return string(b)
}

// IsValid reports whether b names a supported backend.
func (b StorageBackend) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
		return true
	}
	return false
}

// IsPersistent reports whether contracts outlive the process.
func (b StorageBackend) IsPersistent() bool {
	return b != BackendMemory
}

// StorageBackends lists every supported backend.
func StorageBackends() []StorageBackend {
	return []StorageBackend{BackendMemory, BackendSQLite, BackendPostgres, BackendRedis}
}

// AppSettings is the resolved application configuration.
type AppSettings struct {
	Storage StorageSettings `json:"storage" yaml:"storage"`
	Server  ServerSettings  `json:"server" yaml:"server"`
	Watch   WatchSettings   `json:"watch" yaml:"watch"`
}

// StorageSettings configures the contract store.
type StorageSettings struct {
	Backend StorageBackend `json:"backend" yaml:"backend"`

	// SQLiteDir holds contracts.db. Empty means ~/.taxclause/data.
	SQLiteDir string `json:"sqliteDir,omitempty" yaml:"sqliteDir,omitempty"`

	PostgresDSN string `json:"postgresDsn,omitempty" yaml:"postgresDsn,omitempty"`

	RedisAddr     string `json:"redisAddr" yaml:"redisAddr"`
	RedisPassword string `json:"redisPassword,omitempty" yaml:"redisPassword,omitempty"`
	RedisDB       int    `json:"redisDb" yaml:"redisDb"`
	RedisPrefix   string `json:"redisPrefix" yaml:"redisPrefix"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string `json:"addr" yaml:"addr"`

	// RateLimit is the sustained request rate in requests per second.
	// Zero or less disables throttling.
	RateLimit float64 `json:"rateLimit" yaml:"rateLimit"`
	Burst     int     `json:"burst" yaml:"burst"`
}

// WatchSettings configures directory watching.
type WatchSettings struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend:     BackendMemory,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "taxclause:",
		},
		Server: ServerSettings{
			Addr:      ":8000",
			RateLimit: 50,
			Burst:     100,
		},
	}
}
