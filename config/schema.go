package config

type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Redis    RedisConfig    `yaml:"redis"`
	Sentinel SentinelConfig `yaml:"sentinel"`
	Probe    ProbeConfig    `yaml:"probe"`
}

type RegistryConfig struct {
	URL     string `yaml:"url"`
	Version string `yaml:"version"`
	Timeout string `yaml:"timeout"`
}

var DefaultRegistryConfig = RegistryConfig{
	URL:     "http://rancher-metadata",
	Version: "2015-12-19",
	Timeout: "10s",
}

type RedisConfig struct {
	Password string `yaml:"password"`
	Port     int    `yaml:"port"`
}

var DefaultRedisConfig = RedisConfig{
	Port: 6379,
}

type SentinelConfig struct {
	// Host is the address of an already-running sentinel. Empty means no
	// sentinel is consulted during resolution.
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Master   string `yaml:"master"`
	Quorum   int    `yaml:"quorum"`
	Password string `yaml:"password"`
	ConfPath string `yaml:"conf_path"`
}

var DefaultSentinelConfig = SentinelConfig{
	Port:     26379,
	ConfPath: "/etc/redis/sentinel.conf",
}

type ProbeConfig struct {
	Timeout string `yaml:"timeout"`
}

var DefaultProbeConfig = ProbeConfig{
	Timeout: "5s",
}
