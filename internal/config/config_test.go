package config

import (
	"flag"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"FA_LOG_LEVEL", "FA_LOG_COLOR", "FA_CACHE_PATH", "FA_WORKERS", "FA_OTEL_ENDPOINT", "FA_OTEL_ENABLED"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestParseEnvDefaults(t *testing.T) {
	clearEnv(t)

	var cfg Config
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogColor)
	assert.Equal(t, "", cfg.CachePath)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.OTelEnabled)
	assert.False(t, cfg.TracingEnabled())
}

func TestParseEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FA_LOG_LEVEL", "debug")
	t.Setenv("FA_CACHE_PATH", "/tmp/fa.db")
	t.Setenv("FA_WORKERS", "8")
	t.Setenv("FA_OTEL_ENDPOINT", "http://localhost:4318")

	var cfg Config
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/fa.db", cfg.CachePath)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.TracingEnabled())

	t.Setenv("FA_OTEL_ENABLED", "false")
	cfg = Config{}
	require.NoError(t, ParseEnv(&cfg))
	assert.False(t, cfg.TracingEnabled())
}

func TestParseEnvError(t *testing.T) {
	clearEnv(t)
	t.Setenv("FA_WORKERS", "many")

	var cfg Config
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"), err.Error())
}

func TestParseConfigFromArgsFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FA_WORKERS", "2")

	var cfg Config
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("out", "", "output")

	err := ParseConfigFromArgs(&cfg, fs, []string{"-workers", "6", "-out", "x.dfa", "rest"})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, "x.dfa", *out)
	assert.Equal(t, []string{"rest"}, fs.Args())
}

func TestParseConfigFromArgsValidates(t *testing.T) {
	clearEnv(t)

	var cfg Config
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	assert.ErrorContains(t, ParseConfigFromArgs(&cfg, fs, []string{"-workers", "0"}), "workers must be at least 1")

	cfg = Config{}
	fs = flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	assert.ErrorContains(t, ParseConfigFromArgs(&cfg, fs, []string{"-log-level", "loud"}), "unknown log level")

	assert.Error(t, ParseConfigFromArgs(nil, fs, nil))
	assert.Error(t, ParseConfigFromArgs(&cfg, nil, nil))
}

// Exitf calls os.Exit, so it runs in a subprocess.
func TestExitfExitsWithCode1(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		Exitf("fatal: %s", "something broke")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfExitsWithCode1$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "expected *exec.ExitError, got %T: %v", err, err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "fatal: something broke")
}
