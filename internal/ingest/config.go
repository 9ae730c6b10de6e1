package ingest

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the top-level resflowd configuration.
type Config struct {
	NATS  NATSConfig  `mapstructure:"nats"`
	Relay RelayConfig `mapstructure:"relay"`
	Watch WatchConfig `mapstructure:"watch"`
}

// NATSConfig holds bus settings. With Embedded set, resflowd runs its own
// in-process server; otherwise it connects to URL.
type NATSConfig struct {
	Embedded bool   `mapstructure:"embedded"`
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	DataDir  string `mapstructure:"data_dir"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
}

// RelayConfig names the subjects the relay consumes and produces.
type RelayConfig struct {
	InboundSubject   string `mapstructure:"inbound_subject"`
	ParsedSubject    string `mapstructure:"parsed_subject"`
	UnmatchedSubject string `mapstructure:"unmatched_subject"`
	FailedSubject    string `mapstructure:"failed_subject"`
}

// WatchConfig holds drop-directory settings. An empty Dir disables the
// watcher.
type WatchConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoadConfig reads configuration from file, env vars, and defaults.
func LoadConfig(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("nats.embedded", true)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")

	homeDir, _ := os.UserHomeDir()
	v.SetDefault("nats.data_dir", filepath.Join(homeDir, ".local", "share", "resflow", "nats"))

	v.SetDefault("relay.inbound_subject", "resflow.mail.inbound")
	v.SetDefault("relay.parsed_subject", "resflow.reservation.parsed")
	v.SetDefault("relay.unmatched_subject", "resflow.mail.unmatched")
	v.SetDefault("relay.failed_subject", "resflow.mail.failed")

	v.SetConfigType("toml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("resflow")
		v.AddConfigPath("/etc/resflow")
		v.AddConfigPath("$HOME/.config/resflow")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RESFLOW")
	v.AutomaticEnv()

	v.BindEnv("nats.url", "RESFLOW_NATS_URL")
	v.BindEnv("nats.token", "RESFLOW_NATS_TOKEN")
	v.BindEnv("watch.dir", "RESFLOW_WATCH_DIR")

	// Config file is optional.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
