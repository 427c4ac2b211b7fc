package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendBolt    = "bolt"
	BackendKeyring = "keyring"
)

// Config contains the wallet service configuration
type Config struct {
	LogLevel               string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFile                string  `env:"LOG_FILE"`
	Stage                  string  `env:"STAGE" envDefault:"development"`
	HTTPAddr               string  `env:"HTTP_ADDR" envDefault:":9000"`
	WalletConnectProjectID string  `env:"WALLETCONNECT_PROJECT_ID"`
	SolanaCluster          string  `env:"SOLANA_CLUSTER" envDefault:"mainnet-beta"`
	App                    App     `envPrefix:"APP_"`
	Storage                Storage `envPrefix:"STORAGE_"`
	Events                 Events  `envPrefix:"EVENTS_"`
	Session                Session `envPrefix:"SESSION_"`
	Auth                   Auth    `envPrefix:"AUTH_"`
	Device                 Device  `envPrefix:"DEVICE_"`
}

// App is the identity presented to wallets
type App struct {
	Name string `env:"NAME" envDefault:"Signa Email"`
	URI  string `env:"URI" envDefault:"https://signa.email"`
	Icon string `env:"ICON" envDefault:"https://signa.email/icon.png"`
}

// Storage selects and configures the persistence backend
type Storage struct {
	Backend        string `env:"BACKEND" envDefault:"memory"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	BoltPath       string `env:"BOLT_PATH" envDefault:"signa.db"`
	KeyringService string `env:"KEYRING_SERVICE" envDefault:"signa"`
}

// Events configures wallet event publishing over redis streams
type Events struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

// Session contains wallet session parameters
type Session struct {
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"2m"`
}

// Auth contains access token parameters
type Auth struct {
	AccessTTL time.Duration `env:"ACCESS_TTL" envDefault:"5m"`
}

// Device describes the simulated device the service runs against
type Device struct {
	InstalledSchemes  []string `env:"INSTALLED_SCHEMES" envSeparator:"," envDefault:"metamask,phantom"`
	RequireBiometrics bool     `env:"REQUIRE_BIOMETRICS" envDefault:"false"`
	Platform          string   `env:"PLATFORM" envDefault:"ios"`
}

// NewConfig loads configuration from environment variables. Values from the given
// dotenv files (default ".env") are applied first; missing files are ignored.
func NewConfig(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendBolt, BackendKeyring:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Session.OperationTimeout < 0 {
		return errors.New("session operation timeout must not be negative")
	}
	if c.Auth.AccessTTL <= 0 {
		return errors.New("access token ttl must be positive")
	}
	return nil
}
