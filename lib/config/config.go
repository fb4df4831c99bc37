// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "IPCBRIDGE_CONFIG"

// Wire format names.
const (
	WireLine     = "line"
	WireEnvelope = "envelope"
)

// Namespace names for channel addresses.
const (
	NamespaceAuto     = "auto"
	NamespacePath     = "path"
	NamespaceAbstract = "abstract"
)

// Config is the complete bridge configuration.
type Config struct {
	// Connect holds the retry policies for the two connect paths.
	Connect ConnectConfig `yaml:"connect" json:"connect"`

	// Namer controls channel address generation at init time.
	Namer NamerConfig `yaml:"namer" json:"namer"`

	// Wire selects the frame format: "line" (the newline-delimited,
	// tag-prefixed protocol every companion speaks) or "envelope"
	// (length-prefixed CBOR, for companions built on this repository).
	Wire string `yaml:"wire" json:"wire"`

	// Exec configures the request/response exchange.
	Exec ExecConfig `yaml:"exec" json:"exec"`

	// Launch configures companion spawning.
	Launch LaunchConfig `yaml:"launch" json:"launch"`

	// Log configures the diagnostic sink. Logs never go to stdout.
	Log LogConfig `yaml:"log" json:"log"`
}

// ConnectConfig holds the retry policies.
type ConnectConfig struct {
	// Handshake is used by init and connect while the companion may
	// still be starting its listener.
	// Default: 300 retries at 10ms.
	Handshake RetryConfig `yaml:"handshake" json:"handshake"`

	// Call is used by exec and terminate, where the companion must
	// already be listening.
	// Default: 0 retries.
	Call RetryConfig `yaml:"call" json:"call"`
}

// RetryConfig is a constant-interval retry budget.
type RetryConfig struct {
	// Retries is the number of additional attempts after the first.
	Retries int `yaml:"retries" json:"retries"`

	// Interval is the pause between attempts, as a Go duration string.
	Interval string `yaml:"interval" json:"interval"`
}

// NamerConfig controls channel address generation.
type NamerConfig struct {
	// Dir is the directory for path-style addresses.
	// Default: /tmp
	Dir string `yaml:"dir" json:"dir"`

	// Prefix is the fixed part of the address name.
	// Default: app.world
	Prefix string `yaml:"prefix" json:"prefix"`

	// Namespace is "auto", "path", or "abstract". Auto uses a path
	// wherever the platform supports filesystem sockets.
	// Default: auto
	Namespace string `yaml:"namespace" json:"namespace"`
}

// ExecConfig configures the request/response exchange.
type ExecConfig struct {
	// ReplyTimeout bounds the wait for the companion's reply frame,
	// as a Go duration string. Empty or "0" waits indefinitely.
	ReplyTimeout string `yaml:"reply_timeout" json:"reply_timeout"`
}

// LaunchConfig configures companion spawning.
type LaunchConfig struct {
	// Detach starts the companion in its own session so it survives
	// the bridge's process group.
	// Default: true
	Detach bool `yaml:"detach" json:"detach"`
}

// LogConfig configures the diagnostic sink.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: warn
	Level string `yaml:"level" json:"level"`

	// File, when set, appends JSON log lines to this path instead of
	// writing to stderr.
	File string `yaml:"file" json:"file"`
}

// Default returns the protocol's default policy.
func Default() *Config {
	return &Config{
		Connect: ConnectConfig{
			Handshake: RetryConfig{Retries: 300, Interval: "10ms"},
			Call:      RetryConfig{Retries: 0, Interval: "10ms"},
		},
		Namer: NamerConfig{
			Dir:       "/tmp",
			Prefix:    "app.world",
			Namespace: NamespaceAuto,
		},
		Wire:   WireLine,
		Launch: LaunchConfig{Detach: true},
		Log:    LogConfig{Level: "warn"},
	}
}

// Load loads the file named by IPCBRIDGE_CONFIG, or returns Default
// when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of Default and
// validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":   os.Getenv("HOME"),
		"TMPDIR": os.TempDir(),
	}
	c.Namer.Dir = expandVars(c.Namer.Dir, vars)
	c.Log.File = expandVars(c.Log.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	for name, retry := range map[string]RetryConfig{
		"connect.handshake": c.Connect.Handshake,
		"connect.call":      c.Connect.Call,
	} {
		if retry.Retries < 0 {
			errs = append(errs, fmt.Errorf("%s.retries must not be negative", name))
		}
		if _, err := parseDuration(retry.Interval); err != nil {
			errs = append(errs, fmt.Errorf("%s.interval: %w", name, err))
		}
	}

	if c.Namer.Prefix == "" {
		errs = append(errs, fmt.Errorf("namer.prefix is required"))
	}
	if strings.ContainsAny(c.Namer.Prefix, "/\x00") {
		errs = append(errs, fmt.Errorf("namer.prefix must not contain '/' or NUL"))
	}
	if !contains([]string{NamespaceAuto, NamespacePath, NamespaceAbstract}, c.Namer.Namespace) {
		errs = append(errs, fmt.Errorf("namer.namespace must be one of: auto, path, abstract"))
	}
	if c.Namer.Namespace != NamespaceAbstract && !filepath.IsAbs(c.Namer.Dir) {
		errs = append(errs, fmt.Errorf("namer.dir must be an absolute path, got %q", c.Namer.Dir))
	}

	if !contains([]string{WireLine, WireEnvelope}, c.Wire) {
		errs = append(errs, fmt.Errorf("wire must be one of: line, envelope"))
	}

	if _, err := parseDuration(c.Exec.ReplyTimeout); err != nil {
		errs = append(errs, fmt.Errorf("exec.reply_timeout: %w", err))
	}

	if !contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HandshakeInterval returns the parsed handshake retry interval.
func (c *Config) HandshakeInterval() time.Duration {
	interval, _ := parseDuration(c.Connect.Handshake.Interval)
	return interval
}

// CallInterval returns the parsed call retry interval.
func (c *Config) CallInterval() time.Duration {
	interval, _ := parseDuration(c.Connect.Call.Interval)
	return interval
}

// ReplyTimeout returns the parsed reply timeout; zero means unbounded.
func (c *Config) ReplyTimeout() time.Duration {
	timeout, _ := parseDuration(c.Exec.ReplyTimeout)
	return timeout
}

// parseDuration accepts an empty string as zero and rejects negatives.
func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", value)
	}
	return duration, nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
