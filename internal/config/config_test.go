package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Source.URL = "https://example.com/api/fusion_companies_json"
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "server.port")
}

func TestValidate_MissingSourceURL(t *testing.T) {
	cfg := validConfig()
	cfg.Source.URL = ""
	assert.ErrorContains(t, cfg.Validate(), "source.url")
}

func TestValidate_BadSourceURL(t *testing.T) {
	cfg := validConfig()
	cfg.Source.URL = "ftp://example.com/data"
	assert.ErrorContains(t, cfg.Validate(), "source.url")
}

func TestValidate_NonPositiveSourceTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Source.Timeout = 0
	assert.ErrorContains(t, cfg.Validate(), "source.timeout")
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "log.level")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultSourceTimeout, cfg.Source.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Cache.TTL = 5 * time.Minute
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestApplyDefaults_NilSafe(t *testing.T) {
	ApplyDefaults(nil)
}
