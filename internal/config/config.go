package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/drone/envsubst"
	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath    = "config/config.yaml"
	defaultAddress       = ":4001"
	defaultStorage       = "memory"
	defaultRadiusKm      = 10.0
	defaultQueryTimeout  = 5 * time.Second
	defaultMongoDatabase = "domisafe"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Storage struct {
		Driver   string `yaml:"driver"`
		URL      string `yaml:"url"`
		Database string `yaml:"database"`
		SeedFile string `yaml:"seed_file"`
	} `yaml:"storage"`
	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Discovery struct {
		DefaultRadiusKm float64       `yaml:"default_radius_km"`
		QueryTimeout    time.Duration `yaml:"query_timeout"`
	} `yaml:"discovery"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		// Set only behind a proxy that overwrites X-Forwarded-For.
		TrustForwardedFor bool `yaml:"trust_forwarded_for"`
	} `yaml:"rate_limit"`
	Tracing struct {
		Endpoint    string `yaml:"endpoint"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"tracing"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Log struct {
		Development bool `yaml:"development"`
	} `yaml:"log"`
}

// LoadConfig reads the YAML file named by CONFIG_PATH, expands ${VAR}
// references, applies env overrides and validates the result.
func LoadConfig() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML.
func Parse(data []byte) (Config, error) {
	expanded, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("expand config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultStorage
	}
	if c.Storage.Driver == "mongo" && c.Storage.Database == "" {
		c.Storage.Database = defaultMongoDatabase
	}
	if c.Discovery.DefaultRadiusKm == 0 {
		c.Discovery.DefaultRadiusKm = defaultRadiusKm
	}
	if c.Discovery.QueryTimeout == 0 {
		c.Discovery.QueryTimeout = defaultQueryTimeout
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "domisafe-discovery"
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Address = ":" + v
	}

	if v, err := readFloatEnv("DISCOVERY_DEFAULT_RADIUS_KM"); err != nil {
		return fmt.Errorf("parse DISCOVERY_DEFAULT_RADIUS_KM: %w", err)
	} else if v != nil {
		c.Discovery.DefaultRadiusKm = *v
	}

	if v, err := readIntEnv("DISCOVERY_QUERY_TIMEOUT_SECONDS"); err != nil {
		return fmt.Errorf("parse DISCOVERY_QUERY_TIMEOUT_SECONDS: %w", err)
	} else if v != nil {
		c.Discovery.QueryTimeout = time.Duration(*v) * time.Second
	}

	if v, err := readIntEnv("RATE_LIMIT_PER_MINUTE"); err != nil {
		return fmt.Errorf("parse RATE_LIMIT_PER_MINUTE: %w", err)
	} else if v != nil {
		c.RateLimit.PerMinute = *v
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "mysql", "pgx", "mongo":
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Discovery.DefaultRadiusKm <= 0 {
		return fmt.Errorf("discovery.default_radius_km must be positive")
	}
	if c.Discovery.QueryTimeout <= 0 {
		return fmt.Errorf("discovery.query_timeout must be positive")
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rate_limit.per_minute must not be negative")
	}
	if c.RateLimit.PerMinute > 0 && c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when rate limiting is enabled")
	}
	return nil
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readFloatEnv(name string) (*float64, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
