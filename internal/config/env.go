package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Env holds overrides read from LAUNCHPAD_* environment variables.
type Env struct {
	Config       string   `envconfig:"CONFIG"`
	DB           string   `envconfig:"DB"`
	AppDirs      []string `envconfig:"APPDIRS"`
	NoAnimations bool     `envconfig:"NO_ANIMATIONS" default:"false"`
}

// LoadEnv reads the LAUNCHPAD_ prefixed environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("launchpad", &env); err != nil {
		return Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return env, nil
}

// DBPath returns the sqlite path, honoring LAUNCHPAD_DB.
func (e Env) DBPath() string {
	if e.DB != "" {
		return e.DB
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "launchpad", "launchpad.db")
}
