package services

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application settings loaded from environment variables and an
// optional config file.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	OpenAIAPIKey string  `mapstructure:"openai_api_key"`
	OpenAIModel  string  `mapstructure:"openai_model"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`

	MinPlayers int `mapstructure:"min_players"`
	MaxPlayers int `mapstructure:"max_players"`
}

// LoadConfig reads settings from the environment (and config.yaml if present)
// with sane defaults. Missing config files are not an error; a missing API key
// simply means games fall back to rule-based agents.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 200)
	v.SetDefault("min_players", 6)
	v.SetDefault("max_players", 15)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
