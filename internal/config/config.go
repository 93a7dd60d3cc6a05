// Package config loads database and workload settings from a .env file,
// environment variables and an optional yaml config file.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved configuration handed to the command layer.
// The harness itself never reads it; paths are constructed from it up front.
type Config struct {
	Database Database
	Bench    Bench
}

// Database holds connectivity settings consumed identically by both paths.
type Database struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Bench holds the workload parameters.
type Bench struct {
	SeedRows int
	Ops      int
	Workers  int
}

// Load reads configuration in ascending precedence: defaults, config file,
// environment (PGORMBENCH_* keys, dots mapped to underscores). A missing .env
// or config file is fine; a malformed config file is not.
func Load(cfgFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file, %w", err)
		}
	} else {
		// Optional by convention.
		_ = godotenv.Load()
	}

	v := viper.New()

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5431)
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("bench.seed_rows", 1000)
	v.SetDefault("bench.ops", 100)
	v.SetDefault("bench.workers", 10)

	v.SetEnvPrefix("PGORMBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file, %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config file, %w", err)
			}
		}
	}

	cfg := &Config{
		Database: Database{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			Name:     v.GetString("database.name"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Bench: Bench{
			SeedRows: v.GetInt("bench.seed_rows"),
			Ops:      v.GetInt("bench.ops"),
			Workers:  v.GetInt("bench.workers"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot possibly connect, before any
// timing begins.
func (c *Config) Validate() error {
	switch {
	case c.Database.Host == "":
		return fmt.Errorf("database host is required")
	case c.Database.Name == "":
		return fmt.Errorf("database name is required")
	case c.Database.User == "":
		return fmt.Errorf("database user is required")
	case c.Database.Port < 1 || c.Database.Port > 65535:
		return fmt.Errorf("database port %d out of range", c.Database.Port)
	case c.Bench.SeedRows < 0:
		return fmt.Errorf("seed rows must not be negative")
	case c.Bench.Ops < 0:
		return fmt.Errorf("ops must not be negative")
	case c.Bench.Workers < 1:
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// DSN builds the postgres connection URL shared by both paths.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   c.Database.Host + ":" + strconv.Itoa(c.Database.Port),
		Path:   "/" + c.Database.Name,
	}
	if c.Database.SSLMode != "" {
		u.RawQuery = "sslmode=" + c.Database.SSLMode
	}
	return u.String()
}
