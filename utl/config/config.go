package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr          string
	JournalDir    string
	JWTSecret     string
	TokenTTL      time.Duration
	MaxAttempts   uint64
	EnableMetrics bool
}

func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("missing listen address")
	}

	if c.JWTSecret != "" && c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}

	return nil
}

func LoadServerConfigFromCLI() ServerConfig {
	return ServerConfig{
		Addr:          viper.GetString("addr"),
		JournalDir:    viper.GetString("journal"),
		JWTSecret:     viper.GetString("jwt-secret"),
		TokenTTL:      viper.GetDuration("token-ttl"),
		MaxAttempts:   viper.GetUint64("max-attempts"),
		EnableMetrics: viper.GetBool("enable-metrics"),
	}
}

type MiningConfig struct {
	MaxAttempts uint64
	Count       uint
	JournalDir  string
}

func (c MiningConfig) Validate() error {
	if c.Count == 0 {
		return fmt.Errorf("block count must be at least 1")
	}

	return nil
}

func LoadMiningConfigFromCLI() MiningConfig {
	return MiningConfig{
		MaxAttempts: viper.GetUint64("max-attempts"),
		Count:       viper.GetUint("count"),
		JournalDir:  viper.GetString("journal"),
	}
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func (c AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT secret")
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}

	return nil
}

func LoadAuthConfigFromCLI() AuthConfig {
	return AuthConfig{
		JWTSecret: viper.GetString("jwt-secret"),
		TokenTTL:  viper.GetDuration("token-ttl"),
	}
}

type RemoteConfig struct {
	Server  string
	Token   string
	Timeout time.Duration
}

func (c RemoteConfig) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("missing server URL")
	}

	return nil
}

func LoadRemoteConfigFromCLI() RemoteConfig {
	return RemoteConfig{
		Server:  viper.GetString("server"),
		Token:   viper.GetString("token"),
		Timeout: viper.GetDuration("timeout"),
	}
}
