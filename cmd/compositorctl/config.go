package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ctlConfig is the small on-disk default for compositorctl: just enough to
// avoid typing --socket on every invocation. Independent of the daemon's
// own viper-loaded config.
type ctlConfig struct {
	AdminSocket string `toml:"admin_socket"`
}

const defaultAdminSocket = "/run/compositord/admin.sock"

// loadCtlConfig reads ~/.compositorctl.toml if present; a missing file is
// not an error, it just means the built-in default socket path applies.
func loadCtlConfig() ctlConfig {
	cfg := ctlConfig{AdminSocket: defaultAdminSocket}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".compositorctl.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ctlConfig{AdminSocket: defaultAdminSocket}
	}
	if cfg.AdminSocket == "" {
		cfg.AdminSocket = defaultAdminSocket
	}
	return cfg
}
