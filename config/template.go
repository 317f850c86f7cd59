package config

import (
	"embed"
	"os"
	"path/filepath"
)

//go:embed templates
var templates embed.FS

const (
	// AppName names the per-user config directory
	AppName = "redi-pgconf"
	// FileName is the config file inside Dir()
	FileName = "config.yaml"
	// EnvConfigDir overrides Dir()
	EnvConfigDir = "PGCONF_CONFIG_DIR"
)

// Dir returns the user configuration directory for redi-pgconf.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns Dir()/config.yaml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Install copies the bundled template into dir unless a config file is
// already there. It returns the config path and whether it was created.
func Install(dir string) (string, bool, error) {
	dst := filepath.Join(dir, FileName)
	if Exists(dst) {
		return dst, false, nil
	}
	if err := CopyFile(templates, "templates/"+FileName, dst, 0o600); err != nil {
		return dst, false, err
	}
	return dst, true, nil
}
