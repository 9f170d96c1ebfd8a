package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "DYNQ_"

// ErrPostgresNotConfigured is returned by the Postgres factories when no DSN is set.
var ErrPostgresNotConfigured = errors.New("postgres dsn not configured")

// Settings holds the test database configuration.
type Settings struct {
	PG     PostgresSettings `mapstructure:"pg"`
	SQLite SQLiteSettings   `mapstructure:"sqlite"`
}

// PostgresSettings configures the Postgres connections.
type PostgresSettings struct {
	DSN               string          `mapstructure:"dsn"`
	Replica           ReplicaSettings `mapstructure:"replica"`
	MaxConns          int32           `mapstructure:"maxconns"`
	MinConns          int32           `mapstructure:"minconns"`
	MaxConnLifetime   time.Duration   `mapstructure:"maxconnlifetime"`
	MaxConnIdleTime   time.Duration   `mapstructure:"maxconnidletime"`
	HealthCheckPeriod time.Duration   `mapstructure:"healthcheckperiod"`
	ConnectTimeout    time.Duration   `mapstructure:"connecttimeout"`
}

// ReplicaSettings configures the optional read replica.
type ReplicaSettings struct {
	DSN string `mapstructure:"dsn"`
}

// SQLiteSettings configures the in-process SQLite database.
type SQLiteSettings struct {
	DSN string `mapstructure:"dsn"`
}

// Configured reports whether a Postgres DSN is set.
func (s PostgresSettings) Configured() bool {
	return s.DSN != ""
}

// Load reads Settings from the environment, falling back to defaults.
// DYNQ_PG_REPLICA_DSN maps to pg.replica.dsn, every underscore after the prefix nests one level.
func Load() (Settings, error) {
	v := viper.New()

	v.SetDefault("pg.maxconns", 10)
	v.SetDefault("pg.minconns", 2)
	v.SetDefault("pg.maxconnlifetime", time.Hour)
	v.SetDefault("pg.maxconnidletime", 5*time.Minute)
	v.SetDefault("pg.healthcheckperiod", time.Minute)
	v.SetDefault("pg.connecttimeout", 5*time.Second)
	v.SetDefault("sqlite.dsn", "file::memory:")

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}

		propKey := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "_", "."))
		v.Set(propKey, value)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}
