// Package config loads the daemon's small on-disk configuration: render
// cadence, event-queue capacity, SHM runtime directory, log path/rotation,
// and whether the GPU command stream is enabled. The daemon process itself
// takes no CLI arguments, so this is a pure env+file reader: TOML file with
// COMPOSITORD_-prefixed environment overrides.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of daemon-tunable values.
type Config struct {
	RenderHz        int    `mapstructure:"render_hz"`
	EventQueueCap   int    `mapstructure:"event_queue_capacity"`
	ShmRuntimeDir   string `mapstructure:"shm_runtime_dir"`
	LogPath         string `mapstructure:"log_path"`
	LogLevel        string `mapstructure:"log_level"`
	LogMaxSizeMB    int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups   int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays   int    `mapstructure:"log_max_age_days"`
	GPUEnabled      bool   `mapstructure:"gpu_enabled"`
	AdminSocketPath string `mapstructure:"admin_socket_path"`
	IPCSocketPath   string `mapstructure:"ipc_socket_path"`
	ScreenWidth     int    `mapstructure:"screen_width"`
	ScreenHeight    int    `mapstructure:"screen_height"`
}

// RenderInterval returns the configured render cadence as a duration.
func (c Config) RenderInterval() time.Duration {
	if c.RenderHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.RenderHz)
}

const defaultConfigPath = "/etc/compositord/compositord.toml"

// Load reads configuration from path (or defaultConfigPath if empty),
// applying COMPOSITORD_-prefixed environment overrides on top. A missing
// config file is not an error: defaults plus env overrides still apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	v.SetEnvPrefix("COMPOSITORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = defaultConfigPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render_hz", 60)
	v.SetDefault("event_queue_capacity", 256)
	v.SetDefault("shm_runtime_dir", "/run/compositord/shm")
	v.SetDefault("log_path", "/var/log/compositord/compositord.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 5)
	v.SetDefault("log_max_age_days", 7)
	v.SetDefault("gpu_enabled", false)
	v.SetDefault("admin_socket_path", "")
	v.SetDefault("ipc_socket_path", "/run/compositord/wsipc.sock")
	v.SetDefault("screen_width", 1920)
	v.SetDefault("screen_height", 1080)
}
