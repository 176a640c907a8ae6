package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration: one base URL per backend
// service, the identity provider, the realtime channel and the local
// bits (locale, client-state database, telemetry). Loaded from YAML
// with PAWMATE_* environment overrides on top.
type Config struct {
	Locale    string          `yaml:"locale"`
	StatePath string          `yaml:"state_path"`
	Services  ServicesConfig  `yaml:"services"`
	Auth      AuthConfig      `yaml:"auth"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	Geo       GeoConfig       `yaml:"geo"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	DevServer DevServerConfig `yaml:"devserver"`
}

// ServicesConfig holds the per-microservice base URLs.
type ServicesConfig struct {
	UsersURL    string `yaml:"users_url"`
	AnimalsURL  string `yaml:"animals_url"`
	MessagesURL string `yaml:"messages_url"`
	RehomersURL string `yaml:"rehomers_url"`
}

type AuthConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RealtimeConfig struct {
	URL string `yaml:"url"`
}

type GeoConfig struct {
	SuggestURL  string        `yaml:"suggest_url"`
	PositionURL string        `yaml:"position_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

type TelemetryConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Endpoint        string        `yaml:"endpoint"`
	Insecure        bool          `yaml:"insecure"`
	ServiceName     string        `yaml:"service_name"`
	Environment     string        `yaml:"environment"`
	MetricsInterval time.Duration `yaml:"metrics_interval"`
}

// DevServerConfig configures the bundled development backend.
type DevServerConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Driver        string        `yaml:"driver"` // sqlite or postgres
	DSN           string        `yaml:"dsn"`
	JWTIssuer     string        `yaml:"jwt_issuer"`
	JWTAudience   string        `yaml:"jwt_audience"`
	AccessSecret  string        `yaml:"access_secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
	Photos        PhotosConfig  `yaml:"photos"`
}

// PhotosConfig selects where uploaded photos land: an S3-compatible
// bucket or a local directory.
type PhotosConfig struct {
	S3Enabled bool   `yaml:"s3_enabled"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	LocalDir  string `yaml:"local_dir"`
	PublicURL string `yaml:"public_url"`
}

// Load reads the YAML file at path (missing file is fine; defaults plus
// environment overrides then apply), layers PAWMATE_* variables on top
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Locale:    "en",
		StatePath: "pawmate-state.db",
		Services: ServicesConfig{
			UsersURL:    "http://localhost:8080/users",
			AnimalsURL:  "http://localhost:8080/animals",
			MessagesURL: "http://localhost:8080/messages",
			RehomersURL: "http://localhost:8080/rehomers",
		},
		Auth:     AuthConfig{BaseURL: "http://localhost:8080/auth"},
		Realtime: RealtimeConfig{URL: "ws://localhost:8080/realtime"},
		Geo: GeoConfig{
			SuggestURL:  "https://nominatim.openstreetmap.org/search",
			PositionURL: "https://ipapi.co/json",
			Timeout:     10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Endpoint:        "localhost:4317",
			Insecure:        true,
			ServiceName:     "pawmate",
			Environment:     "dev",
			MetricsInterval: 30 * time.Second,
		},
		DevServer: DevServerConfig{
			Host:          "localhost",
			Port:          8080,
			Driver:        "sqlite",
			DSN:           "pawmate-dev.db",
			JWTIssuer:     "pawmate-dev",
			JWTAudience:   "pawmate",
			AccessSecret:  "dev-access-secret",
			RefreshSecret: "dev-refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    30 * 24 * time.Hour,
			Photos:        PhotosConfig{LocalDir: "pawmate-photos", PublicURL: "http://localhost:8080/photos"},
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("PAWMATE_LOCALE", &cfg.Locale)
	setString("PAWMATE_STATE_PATH", &cfg.StatePath)
	setString("PAWMATE_USERS_URL", &cfg.Services.UsersURL)
	setString("PAWMATE_ANIMALS_URL", &cfg.Services.AnimalsURL)
	setString("PAWMATE_MESSAGES_URL", &cfg.Services.MessagesURL)
	setString("PAWMATE_REHOMERS_URL", &cfg.Services.RehomersURL)
	setString("PAWMATE_AUTH_URL", &cfg.Auth.BaseURL)
	setString("PAWMATE_REALTIME_URL", &cfg.Realtime.URL)
	setString("PAWMATE_OTEL_ENDPOINT", &cfg.Telemetry.Endpoint)
	setString("PAWMATE_DEV_DRIVER", &cfg.DevServer.Driver)
	setString("PAWMATE_DEV_DSN", &cfg.DevServer.DSN)
	setString("PAWMATE_DEV_ACCESS_SECRET", &cfg.DevServer.AccessSecret)
	setString("PAWMATE_DEV_REFRESH_SECRET", &cfg.DevServer.RefreshSecret)
	if v, ok := os.LookupEnv("PAWMATE_OTEL_ENABLED"); ok {
		cfg.Telemetry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v, ok := os.LookupEnv("PAWMATE_DEV_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DevServer.Port = port
		}
	}
}

func (c *Config) Validate() error {
	for name, u := range map[string]string{
		"services.users_url":    c.Services.UsersURL,
		"services.animals_url":  c.Services.AnimalsURL,
		"services.messages_url": c.Services.MessagesURL,
		"services.rehomers_url": c.Services.RehomersURL,
		"auth.base_url":         c.Auth.BaseURL,
		"realtime.url":          c.Realtime.URL,
	} {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	switch c.DevServer.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("devserver.driver must be sqlite or postgres, got %q", c.DevServer.Driver)
	}
	if c.DevServer.Port <= 0 || c.DevServer.Port > 65535 {
		return fmt.Errorf("devserver.port %d out of range", c.DevServer.Port)
	}
	if c.Geo.Timeout <= 0 {
		return fmt.Errorf("geo.timeout must be positive")
	}
	return nil
}
