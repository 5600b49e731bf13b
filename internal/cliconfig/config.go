// Package cliconfig resolves the CLI configuration surface: defaults,
// optional TOML file, OBJFILTER_* environment variables, and flags, with
// flags taking precedence over env over file.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wsu-pmp/object-detection-node/internal/filter"
)

// Default transport endpoints. One UDP datagram carries one message.
const (
	DefaultListenAddr  = ":9301"
	DefaultObjectsAddr = "127.0.0.1:9302"
	DefaultMarkersAddr = "127.0.0.1:9303"
)

// Config holds CLI configuration for the filter node.
type Config struct {
	ListenAddr  string
	ObjectsAddr string
	MarkersAddr string

	// ReplayDir switches the node to the file replay source when set.
	ReplayDir string

	SizeThreshold float64
	MaxObjects    int
	PollInterval  time.Duration
	Once          bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    DefaultListenAddr,
		ObjectsAddr:   DefaultObjectsAddr,
		MarkersAddr:   DefaultMarkersAddr,
		SizeThreshold: filter.DefaultSizeThreshold,
		MaxObjects:    filter.DefaultMaxObjects,
		PollInterval:  500 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SizeThreshold <= 0 {
		return fmt.Errorf("size threshold must be positive")
	}
	if c.MaxObjects <= 0 {
		return fmt.Errorf("max objects must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.ReplayDir == "" && c.ListenAddr == "" {
		return fmt.Errorf("listen address is required (or replay-dir)")
	}
	if c.ObjectsAddr == "" {
		return fmt.Errorf("objects address is required")
	}
	if c.MarkersAddr == "" {
		return fmt.Errorf("markers address is required")
	}
	return nil
}

// Logger returns a console logger for the CLI.
func Logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool from an optional value if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses and sets an int if valid and flag not changed.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if n > 0 {
		*dst = n
	}
	return nil
}

// setFloatFromString parses and sets a float64 if valid and flag not changed.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f > 0 {
		*dst = f
	}
	return nil
}

// setBoolFromString parses and sets a bool if valid and flag not changed.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	if b, err := strconv.ParseBool(value); err == nil {
		*dst = b
	}
}
