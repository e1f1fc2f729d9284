// Package config defines and validates the feeder's on-disk configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	defaultListenAddr      = "0.0.0.0:7171"
	defaultSrvWriteTimeout = 15 * time.Second
	defaultSrvReadTimeout  = 15 * time.Second
	defaultFeeDenom        = "uatom"
)

var (
	validate = validator.New()

	// ErrEmptyConfigPath defines a sentinel error for an empty config path.
	ErrEmptyConfigPath = errors.New("empty configuration file path")
)

type (
	// Config defines all necessary feeder configuration parameters.
	Config struct {
		Server     Server     `mapstructure:"server"`
		Chain      Chain      `mapstructure:"chain" validate:"required"`
		Account    Account    `mapstructure:"account" validate:"required"`
		Keyring    Keyring    `mapstructure:"keyring"`
		Sources    []string   `mapstructure:"sources" validate:"required,gt=0,dive,required"`
		Denoms     []string   `mapstructure:"denoms"`
		FeeDenom   string     `mapstructure:"fee_denom"`
	}

	// Server defines the diagnostic API server configuration.
	Server struct {
		ListenAddr     string   `mapstructure:"listen_addr"`
		WriteTimeout   string   `mapstructure:"write_timeout"`
		ReadTimeout    string   `mapstructure:"read_timeout"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	}

	// Chain defines the chain's REST LCD endpoint and identity.
	Chain struct {
		LCDEndpoint string `mapstructure:"lcd_endpoint" validate:"required"`
		ChainID     string `mapstructure:"chain_id" validate:"required"`
	}

	// Account defines the feeder's on-chain identity: the address that
	// signs, and the validator addresses it votes on behalf of.
	Account struct {
		Address    string   `mapstructure:"address" validate:"required"`
		Validators []string `mapstructure:"validators" validate:"required,gt=0,dive,required"`
	}

	// Keyring defines the software/hardware key source. If UseLedger is
	// set, Passphrase is ignored and the hardware signer variant is used
	// instead; Dir and Backend still locate the keystore entry for the key.
	Keyring struct {
		Dir        string `mapstructure:"dir"`
		Backend    string `mapstructure:"backend"`
		Passphrase string `mapstructure:"passphrase"`
		UseLedger  bool   `mapstructure:"use_ledger"`
	}
)

// Validate returns an error if the Config object is invalid.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// ParseConfig attempts to read and parse configuration from the given file
// path. An error is returned if reading or parsing the config fails.
func ParseConfig(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		return cfg, ErrEmptyConfigPath
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultListenAddr
	}
	if cfg.Server.WriteTimeout == "" {
		cfg.Server.WriteTimeout = defaultSrvWriteTimeout.String()
	}
	if cfg.Server.ReadTimeout == "" {
		cfg.Server.ReadTimeout = defaultSrvReadTimeout.String()
	}
	if cfg.FeeDenom == "" {
		cfg.FeeDenom = defaultFeeDenom
	}

	return cfg, cfg.Validate()
}

// DenomFilterSet returns the configured denoms as an allow-set, or nil for
// "all" (Denoms empty or containing the literal "all").
func (c Config) DenomFilterSet() map[string]struct{} {
	if len(c.Denoms) == 0 {
		return nil
	}
	for _, d := range c.Denoms {
		if d == "all" {
			return nil
		}
	}

	set := make(map[string]struct{}, len(c.Denoms))
	for _, d := range c.Denoms {
		set[d] = struct{}{}
	}
	return set
}
