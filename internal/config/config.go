package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"project-editor/backend/internal/database"
)

// Config is the runtime configuration of the API server.
type Config struct {
	Port              string
	AllowedOrigins    []string
	LogLevel          string
	LogFormat         string
	StrictParentCheck bool
	Database          database.Config
}

// Keys as read from the environment (or bound flags).
const (
	KeyPort              = "PORT"
	KeyAllowedOrigins    = "ALLOWED_ORIGINS"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogFormat         = "LOG_FORMAT"
	KeyStrictParentCheck = "STRICT_PARENT_CHECK"
	KeyDatabaseDriver    = "DATABASE_DRIVER"
	KeyDatabaseURL       = "DATABASE_URL"
	KeySQLitePath        = "SQLITE_PATH"
	KeyNeo4jURI          = "NEO4J_URI"
	KeyNeo4jUser         = "NEO4J_USER"
	KeyNeo4jPassword     = "NEO4J_PASSWORD"
	KeyNeo4jDatabase     = "NEO4J_DATABASE"
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyAllowedOrigins, "http://localhost:3000")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyStrictParentCheck, false)
	v.SetDefault(KeyDatabaseDriver, database.DriverSQLite)
	v.SetDefault(KeySQLitePath, "editor.db")
	v.SetDefault(KeyNeo4jURI, "bolt://localhost:7687")
	v.SetDefault(KeyNeo4jUser, "neo4j")
	v.SetDefault(KeyNeo4jDatabase, "neo4j")
}

// Load reads envFile into the process environment, when it exists, and
// resolves the configuration through v.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logrus.WithField("file", envFile).Info("No .env file found, reading from environment")
		}
	}

	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:              v.GetString(KeyPort),
		AllowedOrigins:    splitList(v.GetString(KeyAllowedOrigins)),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		StrictParentCheck: v.GetBool(KeyStrictParentCheck),
		Database: database.Config{
			Driver:     strings.ToLower(v.GetString(KeyDatabaseDriver)),
			URL:        v.GetString(KeyDatabaseURL),
			SQLitePath: v.GetString(KeySQLitePath),
			Neo4j: database.Neo4jConfig{
				URI:      v.GetString(KeyNeo4jURI),
				Username: v.GetString(KeyNeo4jUser),
				Password: v.GetString(KeyNeo4jPassword),
				Database: v.GetString(KeyNeo4jDatabase),
			},
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	switch c.Database.Driver {
	case database.DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL environment variable is not set")
		}
	case database.DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("SQLITE_PATH must not be empty")
		}
	case database.DriverNeo4j:
		if c.Database.Neo4j.URI == "" {
			return errors.New("NEO4J_URI must not be empty")
		}
	default:
		return errors.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
