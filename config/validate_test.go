package config

import (
	"errors"
	"testing"
)

func validServerConfig() *Config {
	return &Config{
		Registry: DefaultRegistryConfig,
		Redis:    RedisConfig{Password: "secret", Port: 6379},
		Sentinel: DefaultSentinelConfig,
		Probe:    DefaultProbeConfig,
	}
}

func validSentinelConfig() *Config {
	cfg := validServerConfig()
	cfg.Sentinel.Master = "mymaster"
	cfg.Sentinel.Quorum = 2
	cfg.Sentinel.Password = "sentinel-secret"
	return cfg
}

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(*Config)
		missing []string
	}{
		{"valid server config", ModeServer, func(c *Config) {}, nil},
		{"valid sentinel config", ModeSentinel, func(c *Config) {
			c.Sentinel.Master = "mymaster"
			c.Sentinel.Quorum = 2
			c.Sentinel.Password = "s"
		}, nil},
		{"missing redis password", ModeServer, func(c *Config) {
			c.Redis.Password = ""
		}, []string{"redis.password"}},
		{"missing registry url", ModeServer, func(c *Config) {
			c.Registry.URL = ""
		}, []string{"registry.url"}},
		{"sentinel fields not required in server mode", ModeServer, func(c *Config) {
			c.Sentinel.Master = ""
			c.Sentinel.Quorum = 0
			c.Sentinel.Password = ""
		}, nil},
		{"all sentinel fields reported at once", ModeSentinel, func(c *Config) {
			c.Sentinel.Master = ""
			c.Sentinel.Quorum = 0
			c.Sentinel.Password = ""
		}, []string{"sentinel.master", "sentinel.quorum", "sentinel.password"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validServerConfig()
			test.mutate(cfg)

			got := cfg.requiredFields(test.mode)
			if len(got) != len(test.missing) {
				t.Fatalf("Expected missing fields %v, got %v", test.missing, got)
			}
			for i := range got {
				if got[i] != test.missing[i] {
					t.Errorf("Expected missing field %q at %d, got %q", test.missing[i], i, got[i])
				}
			}
		})
	}
}

func TestValidateConfigReportsEveryMissingField(t *testing.T) {
	cfg := validServerConfig()
	cfg.Redis.Password = ""
	cfg.Registry.URL = ""

	err := validateConfig(cfg, ModeSentinel)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var missingErr *MissingConfigError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Expected MissingConfigError, got %T", err)
	}

	// registry.url, redis.password, plus the three sentinel-mode fields
	// without defaults (master, quorum, password).
	if len(missingErr.Fields) != 5 {
		t.Errorf("Expected 5 missing fields, got %v", missingErr.Fields)
	}
}

func TestValidateValues(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{"valid values", func(c *Config) {}, false},
		{"redis port out of range", func(c *Config) { c.Redis.Port = 70000 }, true},
		{"sentinel port zero", func(c *Config) { c.Sentinel.Port = 0 }, true},
		{"bad probe timeout", func(c *Config) { c.Probe.Timeout = "soon" }, true},
		{"bad registry timeout", func(c *Config) { c.Registry.Timeout = "" }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validSentinelConfig()
			test.mutate(cfg)

			result := cfg.validateValues()
			if (result != nil) != test.expectErr {
				t.Errorf("Expected error: %v, got: %v", test.expectErr, result)
			}
		})
	}
}
