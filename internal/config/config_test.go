package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	t.Setenv(EnvPort, " 9090 ")
	assert.Equal(t, "9090", Getenv(EnvPort, "8080"))
	assert.Equal(t, 9090, IntEnv(EnvPort, 8080))

	t.Setenv(EnvPort, "")
	assert.Equal(t, "8080", Getenv(EnvPort, "8080"))

	t.Setenv(EnvSeed, "not a number")
	assert.Equal(t, int64(5), Int64Env(EnvSeed, 5))
	t.Setenv(EnvSeed, "-12")
	assert.Equal(t, int64(-12), Int64Env(EnvSeed, 5))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte(EnvLogLevel+"=debug\n"+EnvRules+"=custom.yaml\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvRules, "")
	os.Unsetenv(EnvRules)

	LoadEnv()
	assert.Equal(t, "warn", Getenv(EnvLogLevel, "info"), "the environment wins over .env")
	assert.Equal(t, "custom.yaml", Getenv(EnvRules, ""))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("warn", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = NewLogger("loud", &buf)
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	rs, err := LoadRules("")
	require.NoError(t, err)
	assert.NotEmpty(t, rs.Roles)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}
