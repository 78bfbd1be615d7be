package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	Firebase   Firebase
	Upload     Upload
	LoggerMode LoggerMode
}

type Firebase struct {
	ProjectID       string
	APIKey          string
	CredentialsFile string
	StorageBucket   string
}

type Upload struct {
	MaxBytes  int64
	KeyPrefix string
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	v.SetDefault("Upload.MaxBytes", 10*1024*1024)
	v.SetDefault("Upload.KeyPrefix", "ChatImages")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	return &c, nil
}
