package config

import (
	"fmt"
	"strings"
	"time"
)

// MissingConfigError reports every absent required field at once, so an
// operator fixes the whole config file in one pass instead of replaying
// the process once per field.
type MissingConfigError struct {
	Fields []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf(fmtErrMissingFields, strings.Join(e.Fields, ", "))
}

type Validator interface {
	requiredFields(mode string) []string
	validateValues() error
}

func validateConfig(config Validator, mode string) error {
	if missing := config.requiredFields(mode); len(missing) > 0 {
		return &MissingConfigError{Fields: missing}
	}

	return config.validateValues()
}

func (c *Config) requiredFields(mode string) []string {
	var missing []string

	if c.Registry.URL == "" {
		missing = append(missing, "registry.url")
	}

	if c.Registry.Version == "" {
		missing = append(missing, "registry.version")
	}

	if c.Redis.Password == "" {
		missing = append(missing, "redis.password")
	}

	if mode == ModeSentinel {
		if c.Sentinel.Master == "" {
			missing = append(missing, "sentinel.master")
		}

		if c.Sentinel.Quorum <= 0 {
			missing = append(missing, "sentinel.quorum")
		}

		if c.Sentinel.Password == "" {
			missing = append(missing, "sentinel.password")
		}

		if c.Sentinel.ConfPath == "" {
			missing = append(missing, "sentinel.conf_path")
		}
	}

	return missing
}

func (c *Config) validateValues() error {
	if c == nil {
		return fmt.Errorf(fmtErrEmptyConfig, "config")
	}

	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf(fmtErrInvalidPort, "redis.port")
	}

	if c.Sentinel.Port <= 0 || c.Sentinel.Port > 65535 {
		return fmt.Errorf(fmtErrInvalidPort, "sentinel.port")
	}

	if _, err := time.ParseDuration(c.Probe.Timeout); err != nil {
		return fmt.Errorf(fmtErrInvalidDuration, "probe.timeout", c.Probe.Timeout)
	}

	if _, err := time.ParseDuration(c.Registry.Timeout); err != nil {
		return fmt.Errorf(fmtErrInvalidDuration, "registry.timeout", c.Registry.Timeout)
	}

	return nil
}
