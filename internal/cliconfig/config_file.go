package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ListenAddr    string  `toml:"listen_addr"`
	ObjectsAddr   string  `toml:"objects_addr"`
	MarkersAddr   string  `toml:"markers_addr"`
	ReplayDir     string  `toml:"replay_dir"`
	SizeThreshold float64 `toml:"size_threshold"`
	MaxObjects    int     `toml:"max_objects"`
	PollInterval  string  `toml:"poll_interval"`
	Once          *bool   `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.objfilter/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".objfilter", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)
	s.setString("objects-addr", fc.ObjectsAddr, &cfg.ObjectsAddr)
	s.setString("markers-addr", fc.MarkersAddr, &cfg.MarkersAddr)
	s.setString("replay-dir", fc.ReplayDir, &cfg.ReplayDir)

	s.setFloat("size-threshold", fc.SizeThreshold, &cfg.SizeThreshold)
	s.setInt("max-objects", fc.MaxObjects, &cfg.MaxObjects)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}

	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}
