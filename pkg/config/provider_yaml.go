package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// YAML representation of the configuration file
type configYAML struct {
	Sensor  sensorYAML  `yaml:"sensor"`
	REST    restYAML    `yaml:"rest,omitempty"`
	Logging loggingYAML `yaml:"logging,omitempty"`
}

type sensorYAML struct {
	LogFile  string `yaml:"log_file"`
	Timezone string `yaml:"timezone,omitempty"`
	MaxDays  int    `yaml:"max_days,omitempty"`
}

type restYAML struct {
	ListenAddr  string `yaml:"listen_addr,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	TLSCertPath string `yaml:"tls_cert,omitempty"`
	TLSKeyPath  string `yaml:"tls_key,omitempty"`
	CORSOrigin  string `yaml:"cors_origin,omitempty"`
	RateLimit   struct {
		RequestsPerSecond float64  `yaml:"requests_per_second,omitempty"`
		Burst             int      `yaml:"burst,omitempty"`
		TrustedProxies    []string `yaml:"trusted_proxies,omitempty"`
	} `yaml:"rate_limit,omitempty"`
}

type loggingYAML struct {
	Debug      bool   `yaml:"debug,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yc configYAML
	if err := yaml.UnmarshalStrict(cfgFile, &yc); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Sensor: SensorData{
			LogFile:  yc.Sensor.LogFile,
			Timezone: yc.Sensor.Timezone,
			MaxDays:  yc.Sensor.MaxDays,
		},
		REST: RESTServerData{
			ListenAddr:  yc.REST.ListenAddr,
			Port:        yc.REST.Port,
			TLSCertPath: yc.REST.TLSCertPath,
			TLSKeyPath:  yc.REST.TLSKeyPath,
			CORSOrigin:  yc.REST.CORSOrigin,
			RateLimit: RateLimitData{
				RequestsPerSecond: yc.REST.RateLimit.RequestsPerSecond,
				Burst:             yc.REST.RateLimit.Burst,
				TrustedProxies:    yc.REST.RateLimit.TrustedProxies,
			},
		},
		Logging: LoggingData{
			Debug:      yc.Logging.Debug,
			File:       yc.Logging.File,
			MaxSizeMB:  yc.Logging.MaxSizeMB,
			MaxBackups: yc.Logging.MaxBackups,
			MaxAgeDays: yc.Logging.MaxAgeDays,
		},
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// IsReadOnly returns true; YAML files are never written back
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML files
func (y *YAMLProvider) Close() error {
	return nil
}
