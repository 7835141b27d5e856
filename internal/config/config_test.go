package config_test

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/contractchain/internal/config"
)

func TestConfigValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg := config.Config{LogLevel: "debug"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, logrus.DebugLevel, cfg.Level())
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		cfg := config.Config{LogLevel: "loud"}
		assert.EqualError(t, cfg.Validate(), "invalid log level: loud. Valid log levels are: debug|error|info|warn")
	})

	t.Run("IgnoresModuleDir", func(t *testing.T) {
		cfg := config.Config{LogLevel: "info", ModuleDir: "/does/not/exist"}
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfigValidateModuleDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("programs", 0o755))
	require.NoError(t, afero.WriteFile(fs, "programs/hello.wasm", []byte{0}, 0o644))

	t.Run("Valid", func(t *testing.T) {
		cfg := config.Config{ModuleDir: "programs"}
		assert.NoError(t, cfg.ValidateModuleDir(fs))
	})

	t.Run("Empty", func(t *testing.T) {
		cfg := config.Config{}
		assert.ErrorContains(t, cfg.ValidateModuleDir(fs), "must not be empty")
	})

	t.Run("Missing", func(t *testing.T) {
		cfg := config.Config{ModuleDir: "nope"}
		err := cfg.ValidateModuleDir(fs)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("IsFile", func(t *testing.T) {
		cfg := config.Config{ModuleDir: "programs/hello.wasm"}
		assert.ErrorContains(t, cfg.ValidateModuleDir(fs), "is not a directory")
	})
}

func TestLoadConfigFromCLI(t *testing.T) {
	viper.Set(config.KeyLogLevel, "warn")
	viper.Set(config.KeyModuleDir, "/tmp/modules")
	viper.Set(config.KeyMetricsAddr, "127.0.0.1:0")
	t.Cleanup(viper.Reset)

	cfg := config.LoadConfigFromCLI()
	assert.Equal(t, config.Config{
		LogLevel:    "warn",
		ModuleDir:   "/tmp/modules",
		MetricsAddr: "127.0.0.1:0",
	}, cfg)
}
