package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Fatal("LoadConfiguration() expected error but got none")
	}
}

func TestDefault(t *testing.T) {
	conf := Default()

	if conf.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q", conf.Server.Address)
	}
	if conf.Server.ReadTimeout != 15*time.Second || conf.Server.WriteTimeout != 15*time.Second {
		t.Errorf("timeouts = %v / %v", conf.Server.ReadTimeout, conf.Server.WriteTimeout)
	}
	if conf.Server.RateLimit != 60 || conf.Server.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d per %v", conf.Server.RateLimit, conf.Server.RateLimitWindow)
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q", conf.Output.Format)
	}
	if conf.Currency.StrictCodes {
		t.Error("expected permissive currency codes by default")
	}
	if !conf.Cache.Enabled || conf.Cache.TTL != 10*time.Minute || conf.Cache.RedisURL != "" {
		t.Errorf("Cache = %+v", conf.Cache)
	}
	if conf.Storage.DBPath == "" || !conf.Storage.Migrate {
		t.Errorf("Storage = %+v", conf.Storage)
	}

	warnings, err := conf.Validate()
	if err != nil {
		t.Fatalf("default configuration should validate, got %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected only the permissive currency warning, got %v", warnings)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`server:
  address: 127.0.0.1:9000
  readTimeout: 5s
  rateLimit: 0
logging:
  level: debug
  format: console
output:
  format: csv
currency:
  strictCodes: true
storage:
  dbPath: ""
cache:
  redisURL: redis://localhost:6379/2
  ttl: 30s
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Server.Address != "127.0.0.1:9000" || conf.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server = %+v", conf.Server)
	}
	if conf.Server.WriteTimeout != 15*time.Second {
		t.Errorf("unset writeTimeout should keep its default, got %v", conf.Server.WriteTimeout)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" || !conf.Currency.StrictCodes {
		t.Errorf("Output = %+v, Currency = %+v", conf.Output, conf.Currency)
	}
	if conf.Cache.RedisURL != "redis://localhost:6379/2" || conf.Cache.TTL != 30*time.Second {
		t.Errorf("Cache = %+v", conf.Cache)
	}

	warnings, err := conf.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "rate limiting is disabled") || !strings.Contains(joined, "quote journal is disabled") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("output:\n  format: csv\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %q", conf.Output.Format)
	}
	if conf.Server.Address != ":8080" {
		t.Errorf("defaults not applied, Server.Address = %q", conf.Server.Address)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("server: [unclosed")); err == nil {
		t.Error("expected malformed YAML to fail")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BROKER_SERVER_ADDRESS", ":9999")
	t.Setenv("BROKER_CURRENCY_STRICTCODES", "true")

	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Server.Address != ":9999" {
		t.Errorf("Server.Address = %q, expected env override", conf.Server.Address)
	}
	if !conf.Currency.StrictCodes {
		t.Error("expected env override of currency.strictCodes")
	}
}

func TestValidateErrors(t *testing.T) {
	conf := Default()
	conf.Output.Format = "xml"
	conf.Server.RateLimit = -1
	conf.Cache.TTL = 0

	_, err := conf.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"output format", "rateLimit", "cache.ttl"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
