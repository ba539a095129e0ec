package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// Defaults applied by ApplyDefaults
const (
	DefaultLogFile    = "data.txt"
	DefaultTimezone   = "Local"
	DefaultMaxDays    = 36500
	DefaultListenAddr = "0.0.0.0"
	DefaultHTTPPort   = 3000
	DefaultCORSOrigin = "*"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Sensor  SensorData     `json:"sensor"`
	REST    RESTServerData `json:"rest"`
	Logging LoggingData    `json:"logging"`
}

// SensorData describes the sensor log and how it is queried
type SensorData struct {
	LogFile  string `json:"log_file"`
	Timezone string `json:"timezone,omitempty"`
	MaxDays  int    `json:"max_days,omitempty"`
}

// RESTServerData holds the HTTP listener configuration
type RESTServerData struct {
	ListenAddr  string        `json:"listen_addr,omitempty"`
	Port        int           `json:"port,omitempty"`
	TLSCertPath string        `json:"tls_cert,omitempty"`
	TLSKeyPath  string        `json:"tls_key,omitempty"`
	CORSOrigin  string        `json:"cors_origin,omitempty"`
	RateLimit   RateLimitData `json:"rate_limit,omitempty"`
}

// RateLimitData configures the per-client token bucket. A zero
// RequestsPerSecond disables rate limiting. Clients are keyed by their socket
// address; X-Forwarded-For is only honored when the peer is listed in
// TrustedProxies (IP addresses or CIDR prefixes).
type RateLimitData struct {
	RequestsPerSecond float64  `json:"requests_per_second,omitempty"`
	Burst             int      `json:"burst,omitempty"`
	TrustedProxies    []string `json:"trusted_proxies,omitempty"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (r RateLimitData) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, s := range r.TrustedProxies {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return nil, fmt.Errorf("invalid rest.rate_limit.trusted_proxies entry %q: %w", s, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid rest.rate_limit.trusted_proxies entry %q: %w", s, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// LoggingData configures the application logger
type LoggingData struct {
	Debug      bool   `json:"debug,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// ApplyDefaults fills in zero-valued settings
func (c *ConfigData) ApplyDefaults() {
	if c.Sensor.LogFile == "" {
		c.Sensor.LogFile = DefaultLogFile
	}
	if c.Sensor.Timezone == "" {
		c.Sensor.Timezone = DefaultTimezone
	}
	if c.Sensor.MaxDays == 0 {
		c.Sensor.MaxDays = DefaultMaxDays
	}
	if c.REST.ListenAddr == "" {
		c.REST.ListenAddr = DefaultListenAddr
	}
	if c.REST.Port == 0 {
		c.REST.Port = DefaultHTTPPort
	}
	if c.REST.CORSOrigin == "" {
		c.REST.CORSOrigin = DefaultCORSOrigin
	}
	if c.REST.RateLimit.RequestsPerSecond > 0 && c.REST.RateLimit.Burst == 0 {
		c.REST.RateLimit.Burst = int(c.REST.RateLimit.RequestsPerSecond)
		if c.REST.RateLimit.Burst < 1 {
			c.REST.RateLimit.Burst = 1
		}
	}
}

// Validate checks the configuration for values that cannot work
func (c *ConfigData) Validate() error {
	if c.REST.Port < 1 || c.REST.Port > 65535 {
		return fmt.Errorf("rest.port %d is out of range", c.REST.Port)
	}
	if (c.REST.TLSCertPath == "") != (c.REST.TLSKeyPath == "") {
		return fmt.Errorf("rest.tls_cert and rest.tls_key must be set together")
	}
	if c.Sensor.MaxDays < 0 {
		return fmt.Errorf("sensor.max_days must not be negative")
	}
	if c.REST.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rest.rate_limit.requests_per_second must not be negative")
	}
	if _, err := c.REST.RateLimit.TrustedProxyPrefixes(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Sensor.Timezone. Both "" and "Local" mean the host zone.
func (c *ConfigData) Location() (*time.Location, error) {
	if c.Sensor.Timezone == "" || c.Sensor.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Sensor.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sensor.timezone %q: %w", c.Sensor.Timezone, err)
	}
	return loc, nil
}
