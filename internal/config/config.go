// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import "time"

type Config struct {
	Application Application `yaml:"application"`
	Logger      Logger      `yaml:"logger"`

	HTTP   HTTPServer   `yaml:"http"`
	Status StatusServer `yaml:"status"`

	Database Database `yaml:"database"`
	ValKey   ValKey   `yaml:"valkey"`
	Storage  Storage  `yaml:"storage"`

	CoreAPI     CoreAPI     `yaml:"coreAPI"`
	Portal      Portal      `yaml:"portal"`
	Housekeeper Housekeeper `yaml:"housekeeper"`
}

type Application struct {
	Name        string `yaml:"name" env:"APP_NAME" envDefault:"member-portal"`
	Environment string `yaml:"environment" env:"APP_ENVIRONMENT" envDefault:"development"`
}

type Logger struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" envDefault:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envDefault:"5s"`
}

type StatusServer struct {
	Address string `yaml:"address" env:"STATUS_ADDRESS" envDefault:":8888"`
}

type Database struct {
	Name     string `yaml:"name" env:"DB_NAME" envDefault:"member_portal"`
	Host     string `yaml:"host" env:"DB_HOST" envDefault:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" envDefault:"5432"`
	User     string `yaml:"user" env:"DB_USER" envDefault:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"sslMode" env:"DB_SSLMODE" envDefault:"disable"`
}

type ValKey struct {
	Host     string `yaml:"host" env:"VALKEY_HOST" envDefault:"localhost:6379"`
	User     string `yaml:"user" env:"VALKEY_USER"`
	Password string `yaml:"password" env:"VALKEY_PASSWORD"`
	Prefix   string `yaml:"prefix" env:"VALKEY_PREFIX" envDefault:"portal"`
}

// StorageBackend selects the repository implementation holding session
// records and ticket latches.
type StorageBackend string

const (
	StorageValKey   StorageBackend = "valkey"
	StoragePostgres StorageBackend = "postgres"
	StorageMemory   StorageBackend = "memory"
)

type Storage struct {
	Backend StorageBackend `yaml:"backend" env:"STORAGE_BACKEND" envDefault:"valkey"`
}

// CoreAPI configures the HTTP client for the Barangay Connect Core API, the
// external collaborator that owns all business logic and persistence.
type CoreAPI struct {
	BaseURL string        `yaml:"baseURL" env:"CORE_API_BASE_URL" envDefault:"http://localhost:8000/api"`
	Timeout time.Duration `yaml:"timeout" envDefault:"10s"`
}

type Portal struct {
	SessionDuration time.Duration `yaml:"sessionDuration" envDefault:"168h"`
	// TicketTTL bounds how long an exchanged ticket latch is remembered.
	// The identity provider's redirect is only valid for minutes, so a short
	// latch window is enough to absorb duplicate submissions.
	TicketTTL time.Duration `yaml:"ticketTTL" envDefault:"15m"`
	// CSRFSecret signs the per-session form tokens. Must be at least 32 bytes.
	CSRFSecret string `yaml:"csrfSecret" env:"PORTAL_CSRF_SECRET"`

	SessionCookieTemplate CookieTemplate `yaml:"sessionCookie"`
	CSRFCookieTemplate    CookieTemplate `yaml:"csrfCookie"`

	LoginPath   string `yaml:"loginPath" envDefault:"/login"`
	LandingPath string `yaml:"landingPath" envDefault:"/dashboard"`
}

type Housekeeper struct {
	TriggerInterval time.Duration `yaml:"triggerInterval" envDefault:"10m"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" envDefault:"72h"`
}
