package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestYAMLProvider(t *testing.T) {
	path := writeFile(t, "config.yaml", `
sensor:
  log_file: /var/lib/sensors/data.txt
  timezone: UTC
  max_days: 90
rest:
  listen_addr: 127.0.0.1
  port: 8081
  cors_origin: https://example.org
  rate_limit:
    requests_per_second: 5
    trusted_proxies:
      - 10.0.0.0/8
      - 192.0.2.7
logging:
  debug: true
  file: /var/log/sensorlog.log
  max_size_mb: 10
`)

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Sensor.LogFile != "/var/lib/sensors/data.txt" {
		t.Errorf("Sensor.LogFile = %q", cfg.Sensor.LogFile)
	}
	if cfg.Sensor.MaxDays != 90 {
		t.Errorf("Sensor.MaxDays = %d, want 90", cfg.Sensor.MaxDays)
	}
	if cfg.REST.ListenAddr != "127.0.0.1" || cfg.REST.Port != 8081 {
		t.Errorf("REST = %+v", cfg.REST)
	}
	if cfg.REST.CORSOrigin != "https://example.org" {
		t.Errorf("REST.CORSOrigin = %q", cfg.REST.CORSOrigin)
	}
	// Burst defaults to the per-second rate
	if cfg.REST.RateLimit.RequestsPerSecond != 5 || cfg.REST.RateLimit.Burst != 5 {
		t.Errorf("REST.RateLimit = %+v", cfg.REST.RateLimit)
	}
	if got := cfg.REST.RateLimit.TrustedProxies; len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "192.0.2.7" {
		t.Errorf("REST.RateLimit.TrustedProxies = %v", got)
	}
	if !cfg.Logging.Debug || cfg.Logging.File != "/var/log/sensorlog.log" || cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Location = %v, want UTC", loc)
	}
}

func TestYAMLProviderDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "sensor: {}\n")

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Sensor.LogFile != DefaultLogFile {
		t.Errorf("Sensor.LogFile = %q, want %q", cfg.Sensor.LogFile, DefaultLogFile)
	}
	if cfg.Sensor.MaxDays != DefaultMaxDays {
		t.Errorf("Sensor.MaxDays = %d, want %d", cfg.Sensor.MaxDays, DefaultMaxDays)
	}
	if cfg.REST.Port != DefaultHTTPPort || cfg.REST.ListenAddr != DefaultListenAddr {
		t.Errorf("REST = %+v", cfg.REST)
	}
	if cfg.REST.RateLimit.RequestsPerSecond != 0 {
		t.Errorf("rate limit should be disabled by default, got %+v", cfg.REST.RateLimit)
	}
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Errorf("Location = %v, want Local", loc)
	}
}

func TestYAMLProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown key", "sensor:\n  logfile: x\n", "logfile"},
		{"bad port", "rest:\n  port: 70000\n", "rest.port"},
		{"half tls", "rest:\n  tls_cert: cert.pem\n", "tls"},
		{"bad timezone", "sensor:\n  timezone: Mars/Olympus\n", "timezone"},
		{"bad trusted proxy", "rest:\n  rate_limit:\n    trusted_proxies: [proxy.local]\n", "trusted_proxies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tt.content)
			_, err := NewYAMLProvider(path).LoadConfig()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}

	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSQLiteProvider(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	if p.IsReadOnly() {
		t.Error("SQLite provider should be writable")
	}

	settings := map[string]string{
		"sensor.log_file":                    "/data/air.txt",
		"sensor.timezone":                    "UTC",
		"rest.port":                          "9000",
		"rest.rate_limit.requests_per_second": "2.5",
		"rest.rate_limit.burst":              "10",
		"rest.rate_limit.trusted_proxies":    "10.0.0.1, 10.0.0.2",
		"logging.debug":                      "true",
	}
	for k, v := range settings {
		if err := p.SetValue(k, v); err != nil {
			t.Fatalf("SetValue(%s): %v", k, err)
		}
	}
	// Overwrite an existing key
	if err := p.SetValue("rest.port", "9001"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Sensor.LogFile != "/data/air.txt" || cfg.Sensor.Timezone != "UTC" {
		t.Errorf("Sensor = %+v", cfg.Sensor)
	}
	if cfg.REST.Port != 9001 {
		t.Errorf("REST.Port = %d, want 9001", cfg.REST.Port)
	}
	if cfg.REST.RateLimit.RequestsPerSecond != 2.5 || cfg.REST.RateLimit.Burst != 10 {
		t.Errorf("REST.RateLimit = %+v", cfg.REST.RateLimit)
	}
	if got := cfg.REST.RateLimit.TrustedProxies; len(got) != 2 || got[0] != "10.0.0.1" || got[1] != "10.0.0.2" {
		t.Errorf("REST.RateLimit.TrustedProxies = %v", got)
	}
	if !cfg.Logging.Debug {
		t.Error("Logging.Debug = false, want true")
	}
	if cfg.REST.ListenAddr != DefaultListenAddr {
		t.Errorf("REST.ListenAddr = %q, want default", cfg.REST.ListenAddr)
	}
}

func TestSQLiteProviderRejectsBadSettings(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	if err := p.SetValue("rest.port", "eighty"); err == nil {
		t.Error("expected an error for a non-numeric port")
	}
	if err := p.SetValue("no.such.key", "1"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestTrustedProxyPrefixes(t *testing.T) {
	rl := RateLimitData{TrustedProxies: []string{"10.1.2.3", " 172.16.5.0/12 ", "", "::ffff:192.0.2.1", "2001:db8::/32"}}

	prefixes, err := rl.TrustedProxyPrefixes()
	if err != nil {
		t.Fatalf("TrustedProxyPrefixes: %v", err)
	}

	want := []string{"10.1.2.3/32", "172.16.0.0/12", "192.0.2.1/32", "2001:db8::/32"}
	if len(prefixes) != len(want) {
		t.Fatalf("got %d prefixes %v, want %v", len(prefixes), prefixes, want)
	}
	for i, p := range prefixes {
		if p.String() != want[i] {
			t.Errorf("prefix %d = %s, want %s", i, p, want[i])
		}
	}

	for _, bad := range []string{"proxy.local", "10.0.0.0/33"} {
		if _, err := (RateLimitData{TrustedProxies: []string{bad}}).TrustedProxyPrefixes(); err == nil {
			t.Errorf("expected an error for %q", bad)
		}
	}
}
