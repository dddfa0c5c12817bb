package config

import (
	"net"
	"strconv"
	"time"
)

// Addr returns the host joined with the configured redis port.
func (c *RedisConfig) Addr(host string) string {
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// Addr returns the host joined with the configured sentinel port.
func (c *SentinelConfig) Addr(host string) string {
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// TimeoutDuration returns the probe timeout. The value is validated at
// load time, so a parse failure here is impossible for a loaded config.
func (c *ProbeConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// TimeoutDuration returns the registry request timeout.
func (c *RegistryConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}
