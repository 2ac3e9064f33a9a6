package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swagftw/minichain/utl/config"
)

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ServerConfig
		wantErr string
	}{
		{"Valid", config.ServerConfig{Addr: ":9090"}, ""},
		{"MissingAddr", config.ServerConfig{}, "missing listen address"},
		{"SecretWithoutTTL", config.ServerConfig{Addr: ":9090", JWTSecret: "s"}, "token TTL must be positive"},
		{"SecretWithTTL", config.ServerConfig{Addr: ":9090", JWTSecret: "s", TokenTTL: time.Minute}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadServerConfigFromCLI(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("addr", ":8080")
	viper.Set("journal", "/tmp/journal")
	viper.Set("jwt-secret", "secret")
	viper.Set("token-ttl", "15m")
	viper.Set("max-attempts", 1000)
	viper.Set("enable-metrics", true)

	cfg := config.LoadServerConfigFromCLI()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.ServerConfig{
		Addr:          ":8080",
		JournalDir:    "/tmp/journal",
		JWTSecret:     "secret",
		TokenTTL:      15 * time.Minute,
		MaxAttempts:   1000,
		EnableMetrics: true,
	}, cfg)
}

func TestMiningConfigValidate(t *testing.T) {
	assert.NoError(t, config.MiningConfig{Count: 1}.Validate())
	assert.Error(t, config.MiningConfig{}.Validate())
}

func TestAuthConfigValidate(t *testing.T) {
	assert.NoError(t, config.AuthConfig{JWTSecret: "s", TokenTTL: time.Minute}.Validate())
	assert.ErrorContains(t, config.AuthConfig{TokenTTL: time.Minute}.Validate(), "missing JWT secret")
	assert.Error(t, config.AuthConfig{JWTSecret: "s"}.Validate())
}

func TestRemoteConfigValidate(t *testing.T) {
	assert.NoError(t, config.RemoteConfig{Server: "http://localhost:9090"}.Validate())
	assert.Error(t, config.RemoteConfig{}.Validate())
}
