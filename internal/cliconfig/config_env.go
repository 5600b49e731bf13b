package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (OBJFILTER_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv("OBJFILTER_LISTEN_ADDR"), &cfg.ListenAddr)
	s.setString("objects-addr", os.Getenv("OBJFILTER_OBJECTS_ADDR"), &cfg.ObjectsAddr)
	s.setString("markers-addr", os.Getenv("OBJFILTER_MARKERS_ADDR"), &cfg.MarkersAddr)
	s.setString("replay-dir", os.Getenv("OBJFILTER_REPLAY_DIR"), &cfg.ReplayDir)

	if err := s.setFloatFromString("size-threshold", os.Getenv("OBJFILTER_SIZE_THRESHOLD"), &cfg.SizeThreshold); err != nil {
		return err
	}
	if err := s.setIntFromString("max-objects", os.Getenv("OBJFILTER_MAX_OBJECTS"), &cfg.MaxObjects); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("OBJFILTER_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("OBJFILTER_ONCE"), &cfg.Once)

	return nil
}
