// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-simulator/internal/source"
	"github.com/iwvelando/mortgage-simulator/pkg/constants"
	"github.com/iwvelando/mortgage-simulator/pkg/financing"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-simulator.
type Configuration struct {
	Logging    LoggingConfig   `yaml:"logging,omitempty"`
	Output     OutputConfig    `yaml:"output,omitempty"`
	Table      TableConfig     `yaml:"table,omitempty"`
	Simulation financing.Input `yaml:"simulation"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, pdf
	File   string `yaml:"file,omitempty"`   // destination of pdf reports
}

// TableConfig points at the financing table source.
type TableConfig struct {
	Source      string        `yaml:"source,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Retries     int           `yaml:"retries,omitempty"`
	RedisKey    string        `yaml:"redisKey,omitempty"`
	SQLiteTable string        `yaml:"sqliteTable,omitempty"`
}

// SourceOptions converts the table settings for source.New.
func (t TableConfig) SourceOptions() source.Options {
	return source.Options{
		Timeout:     t.Timeout,
		Retries:     t.Retries,
		RedisKey:    t.RedisKey,
		SQLiteTable: t.SQLiteTable,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register every key so environment overrides reach Unmarshal.
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
	v.SetDefault("output.file", "")
	v.SetDefault("table.source", constants.DefaultTableSource)
	v.SetDefault("table.timeout", constants.DefaultTableTimeoutSeconds*time.Second)
	v.SetDefault("table.retries", constants.DefaultTableRetries)
	v.SetDefault("table.redisKey", constants.DefaultRedisKey)
	v.SetDefault("table.sqliteTable", constants.DefaultSQLiteTable)
	v.SetDefault("simulation.propertyValue", 0)
	v.SetDefault("simulation.grossIncome", 0)
	v.SetDefault("simulation.termMonths", 0)
	v.SetDefault("simulation.age", 0)
	v.SetDefault("simulation.fgtsAmount", 0)
	v.SetDefault("simulation.hasDependents", false)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return unmarshal(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format == constants.OutputFormatPDF && c.Output.File == "" {
		warnings = append(warnings, "output format pdf without output.file; the report goes to simulation.pdf")
	}

	if c.Table.Timeout <= 0 {
		warnings = append(warnings, fmt.Sprintf("table timeout %s is not positive; using %ds",
			c.Table.Timeout, constants.DefaultTableTimeoutSeconds))
	}

	if c.Table.Retries < 0 {
		warnings = append(warnings, fmt.Sprintf("table retries %d is negative; retries are disabled", c.Table.Retries))
	}

	if err := financing.Validate(c.Simulation); err != nil {
		warnings = append(warnings, "simulation section is incomplete until overridden by flags: "+err.Error())
	}

	return warnings
}
