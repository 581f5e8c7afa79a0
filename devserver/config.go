package devserver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvAddr overrides the listening address of the configuration.
const EnvAddr = "CPC_SERVER_ADDR"

// Config is the development server configuration, read from a YAML file.
type Config struct {
	Addr     string         `yaml:"addr"`
	Prefix   string         `yaml:"prefix"`
	Database DatabaseConfig `yaml:"database"`
	// Seed fills an empty database with sample companies and statements.
	Seed bool `yaml:"seed"`
}

// DatabaseConfig selects the gorm driver.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

// DefaultConfig serves an in memory sqlite database on localhost:8000/api,
// the default base of the console.
//
// The dsn is left empty: it depends on the driver and is set by validation,
// so that a file selecting postgres without a dsn is rejected.
func DefaultConfig() Config {
	return Config{
		Addr:     "localhost:8000",
		Prefix:   "/api",
		Database: DatabaseConfig{Driver: "sqlite"},
	}
}

// LoadConfig reads the YAML file at path over the default configuration.
// An empty path or a missing file yields the defaults. The address is then
// overridden by $CPC_SERVER_ADDR when set.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("invalid server configuration %q: %w", path, err)
			}
		}
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Addr = addr
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Prefix != "" && !strings.HasPrefix(c.Prefix, "/") {
		c.Prefix = "/" + c.Prefix
	}
	c.Prefix = strings.TrimSuffix(c.Prefix, "/")
	switch c.Database.Driver {
	case "sqlite", "postgres":
	case "":
		c.Database.Driver = "sqlite"
	default:
		return fmt.Errorf("unsupported database driver %q, expected sqlite or postgres", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		if c.Database.Driver == "postgres" {
			return errors.New("the postgres driver requires a dsn")
		}
		c.Database.DSN = ":memory:"
	}
	return nil
}
