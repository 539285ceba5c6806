// Package config resolves node settings from flags, DICEBET_* environment
// variables and an optional <home>/config/app.toml, in that order of
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "DICEBET"

const (
	KeyHome          = "home"
	KeyABCIAddr      = "abci.addr"
	KeyABCITransport = "abci.transport"
	KeyDBBackend     = "db.backend"
	KeyMetricsAddr   = "metrics.addr"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyFaucet        = "app.faucet"
)

const (
	DefaultHome = ".dicebet"

	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

type Config struct {
	Home          string
	ABCIAddr      string
	ABCITransport string
	DBBackend     string
	// MetricsAddr is the Prometheus listen address; empty disables it.
	MetricsAddr string
	LogLevel    string
	LogFormat   string
	// Faucet allows unsigned bank/mint. Devnets only.
	Faucet bool
}

// DataDir is where chain state lives.
func (c Config) DataDir() string { return filepath.Join(c.Home, "data") }

// File is the optional config file under home.
func (c Config) File() string { return filepath.Join(c.Home, "config", "app.toml") }

// NewViper returns a viper with defaults and env binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHome, DefaultHome)
	v.SetDefault(KeyABCIAddr, "tcp://127.0.0.1:26658")
	v.SetDefault(KeyABCITransport, "socket")
	v.SetDefault(KeyDBBackend, "goleveldb")
	v.SetDefault(KeyMetricsAddr, "127.0.0.1:26660")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, LogFormatPlain)
	v.SetDefault(KeyFaucet, false)
	return v
}

// Load merges the config file, if present, and validates the result.
func Load(v *viper.Viper) (Config, error) {
	home := v.GetString(KeyHome)
	file := filepath.Join(home, "config", "app.toml")
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", file, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat %s: %w", file, err)
	}

	cfg := Config{
		Home:          home,
		ABCIAddr:      v.GetString(KeyABCIAddr),
		ABCITransport: v.GetString(KeyABCITransport),
		DBBackend:     v.GetString(KeyDBBackend),
		MetricsAddr:   v.GetString(KeyMetricsAddr),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
		Faucet:        v.GetBool(KeyFaucet),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("%s must be set", KeyHome)
	}
	switch c.ABCITransport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("%s must be socket or grpc, got %q", KeyABCITransport, c.ABCITransport)
	}
	switch c.DBBackend {
	case "goleveldb", "memdb":
	default:
		return fmt.Errorf("%s must be goleveldb or memdb, got %q", KeyDBBackend, c.DBBackend)
	}
	switch c.LogFormat {
	case LogFormatPlain, LogFormatJSON:
	default:
		return fmt.Errorf("%s must be plain or json, got %q", KeyLogFormat, c.LogFormat)
	}
	return nil
}
