// Package config loads relay settings from defaults, an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables
const (
	EnvPort          = "PORT"
	EnvExtractorPath = "YT_DLP_PATH"
)

// Defaults
const (
	DefaultPort          = 3001
	DefaultAPIPrefix     = "/api"
	DefaultExtractorName = "yt-dlp"
	LocalExtractorPath   = "bin/yt-dlp"
)

// DefaultHardeningFlags are passed to every extractor invocation.
var DefaultHardeningFlags = []string{
	"--no-warnings",
	"--no-check-certificate",
	"--age-limit", "99",
}

// Config is the relay configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	APIPrefix string `yaml:"api_prefix"`
}

// ExtractorConfig describes how the external extractor is invoked.
type ExtractorConfig struct {
	// Path overrides extractor lookup. Empty means local bin, then PATH.
	Path           string         `yaml:"path"`
	HardeningFlags []string       `yaml:"hardening_flags"`
	Platforms      []PlatformRule `yaml:"platforms"`
}

// PlatformRule adds fixed extractor arguments for URLs whose host contains
// one of Hosts.
type PlatformRule struct {
	Name  string   `yaml:"name"`
	Hosts []string `yaml:"hosts"`
	Args  []string `yaml:"args"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      DefaultPort,
			APIPrefix: DefaultAPIPrefix,
		},
		Extractor: ExtractorConfig{
			HardeningFlags: append([]string(nil), DefaultHardeningFlags...),
			Platforms:      DefaultPlatforms(),
		},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvExtractorPath); v != "" {
		c.Extractor.Path = v
	}
	return c.Validate()
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Server.Port)
	}
	if c.Server.APIPrefix == "" || c.Server.APIPrefix[0] != '/' {
		return fmt.Errorf("api_prefix must start with '/': %q", c.Server.APIPrefix)
	}
	for i, p := range c.Extractor.Platforms {
		if len(p.Hosts) == 0 {
			return fmt.Errorf("platform rule %d (%s) has no hosts", i, p.Name)
		}
	}
	return nil
}

// ResolveExtractor finds the extractor executable once: the configured path,
// then a local bin/yt-dlp, then yt-dlp on PATH. When nothing is found the bare
// name is returned so that spawning fails per request with a clear error.
func (c *Config) ResolveExtractor() (string, bool) {
	if c.Extractor.Path != "" {
		if p, err := exec.LookPath(c.Extractor.Path); err == nil {
			return p, true
		}
		return c.Extractor.Path, false
	}

	if abs, err := filepath.Abs(LocalExtractorPath); err == nil {
		if p, err := exec.LookPath(abs); err == nil {
			return p, true
		}
	}

	if p, err := exec.LookPath(DefaultExtractorName); err == nil {
		return p, true
	}
	return DefaultExtractorName, false
}
