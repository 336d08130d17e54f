package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 清空相关环境变量, 测试结束后恢复
func clearEnv(t *testing.T) {
	t.Helper()

	for _, b := range envBindings {
		t.Setenv(b.env, "")
		require.NoError(t, os.Unsetenv(b.env))
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "client")
	t.Setenv(EnvClientSecret, " secret ")
	t.Setenv(EnvRefreshToken, "a.b.c")
	t.Setenv(EnvAPIHost, " https://fleet-api.example.com\t")

	cfg, err := Load(nil, "", false)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "a.b.c",
		APIHost:      "https://fleet-api.example.com",
	}, cfg)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	content := "TESLA_CLIENT_ID=from-file\nTESLA_CLIENT_SECRET=file-secret\nTESLA_REFRESH_TOKEN=file.refresh.token\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(nil, path, true)
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.ClientID, "process environment wins over the file")
	assert.Equal(t, "file-secret", cfg.ClientSecret)
	assert.Equal(t, "file.refresh.token", cfg.RefreshToken)
	assert.Empty(t, cfg.APIHost)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "absent.env")

	_, err := Load(nil, path, false)
	assert.NoError(t, err)

	_, err = Load(nil, path, true)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "absent.env")
}

func TestLoad_ViperOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIHost, "https://from-env.example.com")

	v := viper.New()
	v.Set(KeyAPIHost, "https://from-flag.example.com")

	cfg, err := Load(v, "", false)
	require.NoError(t, err)
	assert.Equal(t, "https://from-flag.example.com", cfg.APIHost)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		missing []string
	}{
		{
			name: "complete",
			cfg:  Config{ClientID: "id", ClientSecret: "secret", RefreshToken: "token"},
		},
		{
			name:    "missing client id",
			cfg:     Config{ClientSecret: "secret", RefreshToken: "token"},
			missing: []string{EnvClientID},
		},
		{
			name:    "missing secret and token",
			cfg:     Config{ClientID: "id", APIHost: "https://fleet-api.example.com"},
			missing: []string{EnvClientSecret, EnvRefreshToken},
		},
		{
			name:    "empty",
			missing: []string{EnvClientID, EnvClientSecret, EnvRefreshToken},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.missing, cfgErr.Missing)
			for _, name := range tt.missing {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}
