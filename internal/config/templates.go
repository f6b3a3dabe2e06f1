package config

import (
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"
)

// Template renders DefaultConfig as TOML.
func Template() ([]byte, error) {
	cfg := DefaultConfig()
	raw := fileConfig{
		Name:         cfg.Name,
		ListenAddr:   cfg.ListenAddr,
		CorsOrigins:  cfg.CorsOrigins,
		MaxLineBytes: cfg.MaxLineBytes,
		Log: fileLog{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			NoColor:    cfg.Log.NoColor,
		},
		Session: fileSession{
			ReadTimeout:  cfg.Session.ReadTimeout.String(),
			WriteTimeout: cfg.Session.WriteTimeout.String(),
		},
	}
	out, err := gotoml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("render config template: %w", err)
	}
	return out, nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, template, 0o600)
}
