package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Coinbase CoinbaseConfig `mapstructure:"coinbase"`
	Trading  TradingConfig  `mapstructure:"trading"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// CoinbaseConfig holds one of two credential shapes: the legacy HMAC pair
// (api_key + api_secret) or a CDP key (key_name + private_key PEM). Both may
// be absent; signing then fails per call instead of at startup.
type CoinbaseConfig struct {
	ApiKey     string `mapstructure:"api_key"`
	ApiSecret  string `mapstructure:"api_secret"`
	KeyName    string `mapstructure:"key_name"`
	PrivateKey string `mapstructure:"private_key"`
	BaseURL    string `mapstructure:"base_url"`
}

type TradingConfig struct {
	UseTenPercent  bool   `mapstructure:"use_ten_percent"`
	DefaultProduct string `mapstructure:"default_product"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	BufferSize int    `mapstructure:"buffer_size"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	// Environment variables support
	// e.g. ALERTGATE_COINBASE_API_KEY
	viper.SetEnvPrefix("alertgate")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults. Credential keys get empty defaults so AutomaticEnv can bind
	// them during Unmarshal.
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("coinbase.api_key", "")
	viper.SetDefault("coinbase.api_secret", "")
	viper.SetDefault("coinbase.key_name", "")
	viper.SetDefault("coinbase.private_key", "")
	viper.SetDefault("coinbase.base_url", "https://api.coinbase.com")
	viper.SetDefault("trading.use_ten_percent", true)
	viper.SetDefault("trading.default_product", "BTC-USD")
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.buffer_size", 500)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
