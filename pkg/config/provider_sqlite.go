package config

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

const settingsSchema = `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
`

// SQLiteProvider implements ConfigProvider for SQLite database configuration.
// Settings are stored as dotted keys, e.g. "rest.port" or "sensor.log_file".
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(settingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	config := &ConfigData{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		if err := applySetting(config, key, value); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SetValue stores a single setting, replacing any previous value
func (s *SQLiteProvider) SetValue(key, value string) error {
	if err := applySetting(&ConfigData{}, key, value); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

// IsReadOnly returns false since SQLite settings can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

func applySetting(c *ConfigData, key, value string) error {
	var err error

	switch key {
	case "sensor.log_file":
		c.Sensor.LogFile = value
	case "sensor.timezone":
		c.Sensor.Timezone = value
	case "sensor.max_days":
		c.Sensor.MaxDays, err = strconv.Atoi(value)
	case "rest.listen_addr":
		c.REST.ListenAddr = value
	case "rest.port":
		c.REST.Port, err = strconv.Atoi(value)
	case "rest.tls_cert":
		c.REST.TLSCertPath = value
	case "rest.tls_key":
		c.REST.TLSKeyPath = value
	case "rest.cors_origin":
		c.REST.CORSOrigin = value
	case "rest.rate_limit.requests_per_second":
		c.REST.RateLimit.RequestsPerSecond, err = strconv.ParseFloat(value, 64)
	case "rest.rate_limit.burst":
		c.REST.RateLimit.Burst, err = strconv.Atoi(value)
	case "rest.rate_limit.trusted_proxies":
		// Comma-separated list
		c.REST.RateLimit.TrustedProxies = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.REST.RateLimit.TrustedProxies = append(c.REST.RateLimit.TrustedProxies, p)
			}
		}
	case "logging.debug":
		c.Logging.Debug, err = strconv.ParseBool(value)
	case "logging.file":
		c.Logging.File = value
	case "logging.max_size_mb":
		c.Logging.MaxSizeMB, err = strconv.Atoi(value)
	case "logging.max_backups":
		c.Logging.MaxBackups, err = strconv.Atoi(value)
	case "logging.max_age_days":
		c.Logging.MaxAgeDays, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err != nil {
		return fmt.Errorf("invalid value %q for setting %s: %w", value, key, err)
	}
	return nil
}
