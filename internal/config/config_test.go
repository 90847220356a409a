package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Demangle)
	assert.True(t, cfg.CXX)
	assert.True(t, cfg.Z)
	assert.True(t, cfg.FatalReservedPrefix)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("SYMFILT_DEMANGLE", "")
	t.Setenv("SYMFILT_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("SYMFILT_DEMANGLE", "")
	t.Setenv("SYMFILT_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "symfilt.yaml")
	cfg := DefaultConfig()
	cfg.Z = false
	cfg.GeneralOptions = []string{"no_params"}
	cfg.Jobs = 3
	cfg.Logging.Format = "json"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("SYMFILT_DEMANGLE", "")
	t.Setenv("SYMFILT_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "symfilt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cxx: false\nlogging:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.CXX)
	assert.True(t, cfg.Z)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("SYMFILT_DEMANGLE", "")
	t.Setenv("SYMFILT_LOG_LEVEL", "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cxx: [\n"), 0644))
	_, err := Load(bad)
	assert.Error(t, err)

	opt := filepath.Join(dir, "opt.yaml")
	require.NoError(t, os.WriteFile(opt, []byte("general_options: [no_rust]\n"), 0644))
	_, err = Load(opt)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	jobs := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(jobs, []byte("jobs: -1\n"), 0644))
	_, err = Load(jobs)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SYMFILT_DEMANGLE", "false")
	t.Setenv("SYMFILT_LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Demangle)
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Setenv("SYMFILT_DEMANGLE", "maybe")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--demangle=false", "--cxx-option", "no_params,no_clones", "-j", "4"}))

	cfg := DefaultConfig()
	cfg.Z = false
	cfg.Logging.Level = "error"
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.False(t, cfg.Demangle)
	assert.Equal(t, []string{"no_params", "no_clones"}, cfg.GeneralOptions)
	assert.Equal(t, 4, cfg.Jobs)
	// Unset flags leave loaded values alone.
	assert.False(t, cfg.Z)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.True(t, cfg.FatalReservedPrefix)
}

func TestApplyFlagsValidates(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--cxx-option", "no_rust"}))

	err := DefaultConfig().ApplyFlags(fs)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDemangler(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GeneralOptions = []string{"no_params"}

	d, err := cfg.Demangler()
	require.NoError(t, err)
	assert.Equal(t, "foo::bar", d.Demangle(true, true, "_ZN3foo3barEi"))

	cfg.Demangle = false
	d, err = cfg.Demangler()
	require.NoError(t, err)
	assert.Equal(t, "_ZN3foo3barEi", d.Demangle(true, true, "_ZN3foo3barEi"))

	cfg.GeneralOptions = []string{"bogus"}
	_, err = cfg.Demangler()
	assert.Error(t, err)
}
