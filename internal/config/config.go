package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the doctrack server configuration, loaded from an HCL file
// with environment variable overrides for credentials.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `hcl:"listen_addr,optional"`

	// BaseURL is the externally visible base URL of this instance.
	BaseURL string `hcl:"base_url,optional"`

	// LogLevel is the hclog level name (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// Postgres configures the document store connection.
	Postgres *Postgres `hcl:"postgres,block"`
}

// Postgres configures the PostgreSQL connection.
type Postgres struct {
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`
}

// NewConfig parses the HCL configuration file at path and applies defaults
// and environment overrides.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration file %q: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Postgres == nil {
		c.Postgres = &Postgres{}
	}
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.User == "" {
		c.Postgres.User = "postgres"
	}
	if c.Postgres.DBName == "" {
		c.Postgres.DBName = "doctrack"
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
}

// applyEnvOverrides lets deployment environments override connection
// settings without editing the config file. Credentials in particular
// should come from the environment, not the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DOCTRACK_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DOCTRACK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DOCTRACK_POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("DOCTRACK_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Postgres.Port = port
		}
	}
	if v := os.Getenv("DOCTRACK_POSTGRES_USER"); v != "" {
		c.Postgres.User = v
	}
	if v := os.Getenv("DOCTRACK_POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("DOCTRACK_POSTGRES_DBNAME"); v != "" {
		c.Postgres.DBName = v
	}
	if v := os.Getenv("DOCTRACK_POSTGRES_SSLMODE"); v != "" {
		c.Postgres.SSLMode = v
	}
}
