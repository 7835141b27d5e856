package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Keys bound to CLI flags.
const (
	KeyLogLevel    = "logLevel"
	KeyModuleDir   = "module-dir"
	KeyMetricsAddr = "metrics-addr"
)

// ValidLogLevels maps --logLevel values to logrus levels.
var (
	ValidLogLevels = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
	}
	ValidLogLevelsStr = strings.Join(slices.Sorted(maps.Keys(ValidLogLevels)), "|")
)

// Config is the run configuration, read from flags through viper.
type Config struct {
	LogLevel    string
	ModuleDir   string
	MetricsAddr string
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if _, ok := ValidLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %s. Valid log levels are: %s", c.LogLevel, ValidLogLevelsStr)
	}
	return nil
}

// ValidateModuleDir checks that ModuleDir is a directory on fs, the
// filesystem programs are loaded from.
func (c Config) ValidateModuleDir(fs afero.Fs) error {
	if c.ModuleDir == "" {
		return fmt.Errorf("module directory must not be empty")
	}
	info, err := fs.Stat(c.ModuleDir)
	if err != nil {
		return fmt.Errorf("module directory %s: %w", c.ModuleDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("module directory %s is not a directory", c.ModuleDir)
	}
	return nil
}

// Level is the logrus level for LogLevel. Call Validate first.
func (c Config) Level() logrus.Level {
	return ValidLogLevels[c.LogLevel]
}

// LoadConfigFromCLI reads the bound flag values.
func LoadConfigFromCLI() Config {
	return Config{
		LogLevel:    viper.GetString(KeyLogLevel),
		ModuleDir:   viper.GetString(KeyModuleDir),
		MetricsAddr: viper.GetString(KeyMetricsAddr),
	}
}
