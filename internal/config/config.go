package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Aging    AgingConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ImportConfig holds bank statement CSV settings.
type ImportConfig struct {
	Delimiter    string
	DateColumn   string `mapstructure:"date_column"`
	AmountColumn string `mapstructure:"amount_column"`
	DescColumn   string `mapstructure:"desc_column"`
}

// AgingConfig maps income account sets to payment kinds and picks the
// default application order.
type AgingConfig struct {
	RentAccounts       []string `mapstructure:"rent_accounts"`
	NKAccounts         []string `mapstructure:"nk_accounts"`
	SettlementAccounts []string `mapstructure:"nka_accounts"`
	Priority           string
}

// Load reads configuration from file and env. Env var overrides use prefix RENTLEDGER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "rentledger", "rentledger.db"))
	v.SetDefault("import.delimiter", ";")
	v.SetDefault("import.date_column", "Datum")
	v.SetDefault("import.amount_column", "Betrag")
	v.SetDefault("import.desc_column", "Verwendungszweck")
	v.SetDefault("aging.rent_accounts", []string{"3000"})
	v.SetDefault("aging.nk_accounts", []string{"3010"})
	v.SetDefault("aging.nka_accounts", []string{"3020"})
	v.SetDefault("aging.priority", "oldest")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RENTLEDGER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "rentledger"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RENTLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
