package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "http://localhost:8000/api", c.APIURL)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Equal(t, 15*time.Minute, c.CatalogTTL)
	assert.False(t, c.Debug)
	assert.Equal(t, "cpphub", filepath.Base(c.DataDir))
	assert.Equal(t, filepath.Join(c.DataDir, "cpphub.db"), c.DBPath())
	assert.Equal(t, filepath.Join(c.DataDir, "debug.log"), c.LogPath())
	assert.NoError(t, c.Validate())
}

func TestLoad_DefaultsAndRemainingArgs(t *testing.T) {
	cfg, rest, err := load([]string{"-env", "", "whoami", "-v"}, noEnv, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, Default().APIURL, cfg.APIURL)
	assert.Equal(t, []string{"whoami", "-v"}, rest)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"CPPHUB_API_URL=http://from-file:1/api\n"+
			"CPPHUB_TIMEOUT=3s\n"+
			"CPPHUB_CATALOG_TTL=1m\n"), 0o600))

	env := envMap(map[string]string{
		EnvTimeout: "4s",
		EnvDebug:   "true",
		EnvDataDir: dir,
	})

	cfg, _, err := load([]string{"-env", envFile, "-timeout", "5s"}, env, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:1/api", cfg.APIURL, "file beats default")
	assert.Equal(t, time.Minute, cfg.CatalogTTL)
	assert.Equal(t, 5*time.Second, cfg.Timeout, "flag beats env beats file")
	assert.True(t, cfg.Debug)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoad_UnsetFlagsDoNotOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{EnvAPIURL: "https://api.example.com"})

	cfg, _, err := load([]string{"-env", ""}, env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, _, err := load([]string{"-env", filepath.Join(t.TempDir(), "nope.env")}, noEnv, io.Discard)
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad env duration", env: map[string]string{EnvTimeout: "soon"}},
		{name: "bad env bool", env: map[string]string{EnvDebug: "maybe"}},
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "invalid url", args: []string{"-api", "ftp://x"}},
		{name: "zero timeout", args: []string{"-timeout", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-env", ""}, tt.args...)
			_, _, err := load(args, envMap(tt.env), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.APIURL = "" }, wantErr: "api url is required"},
		{name: "wrong scheme", mutate: func(c *Config) { c.APIURL = "file:///tmp" }, wantErr: "must use http or https"},
		{name: "no host", mutate: func(c *Config) { c.APIURL = "http://" }, wantErr: "has no host"},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: "data dir is required"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout must be positive"},
		{name: "zero ttl", mutate: func(c *Config) { c.CatalogTTL = 0 }, wantErr: "catalog ttl must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
