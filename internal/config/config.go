// Package config holds the process settings shared by the binaries: a .env
// file, environment defaults and the logrus setup.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/peterkuimelis/poisontraders/internal/game"
)

// Environment variables read for flag defaults.
const (
	EnvRules    = "POISONTRADERS_RULES"
	EnvLogLevel = "POISONTRADERS_LOG_LEVEL"
	EnvPort     = "POISONTRADERS_PORT"
	EnvSeed     = "POISONTRADERS_SEED"
)

// LoadEnv reads .env from the working directory if there is one. Variables
// already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// Getenv returns the variable, or def when it is unset or blank.
func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Int64Env parses the variable as an integer, falling back to def.
func Int64Env(key string, def int64) int64 {
	n, err := strconv.ParseInt(Getenv(key, ""), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// IntEnv is Int64Env for int.
func IntEnv(key string, def int) int {
	return int(Int64Env(key, int64(def)))
}

// NewLogger builds a text logger writing to out at the named level.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

// LoadRules loads the rule file at path, or the embedded rules when path is
// empty.
func LoadRules(path string) (*game.RuleSet, error) {
	rs, err := game.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("load rules %q: %w", path, err)
	}
	return rs, nil
}
