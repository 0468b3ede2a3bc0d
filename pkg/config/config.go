// Package config loads the batch driver configuration: built-in
// defaults, then an optional YAML file, then GRADER_* variables
// from the environment or a .env file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRADER_"

// Config holds the batch driver settings.
type Config struct {
	// Concurrency bounds parallel grader runs.
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=64"`

	// ReportDir receives summaries.
	ReportDir string `yaml:"report_dir" validate:"required"`

	// HistoryFile, when set, receives one JSON line per grader
	// per run.
	HistoryFile string `yaml:"history_file"`

	// MetricsFile, when set, receives Prometheus text metrics.
	MetricsFile string `yaml:"metrics_file"`

	// ScenarioDirs hold extra scenario bank files.
	ScenarioDirs []string `yaml:"scenario_dirs" validate:"dive,required"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	// LogFormat selects console or JSON log output.
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	// LogDir, when set, receives JSON log and scenario log
	// files.
	LogDir string `yaml:"log_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Concurrency: 4,
		ReportDir:   "reports",
		LogFormat:   "console",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate reports every invalid field, combined.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, fmt.Errorf(
			"%s: %s",
			strings.TrimPrefix(fe.Namespace(), "Config."), describe(fe),
		))
	}
	return combined
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Load builds a Config from the defaults, the YAML file at
// path (skipped when path is empty), and GRADER_* overrides
// resolved through env. A nil env reads the process
// environment only. The result is validated.
func Load(path string, env *EnvLoader) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if env == nil {
		env = NewEnvLoader()
	}
	if err := applyEnv(&cfg, env); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decode overlays YAML onto cfg, rejecting unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overlays non-empty GRADER_* values. Malformed
// numbers and booleans are reported together.
func applyEnv(cfg *Config, env *EnvLoader) error {
	var errs error

	if v := env.Get(EnvPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf(
				"%sCONCURRENCY: not an integer: %q", EnvPrefix, v,
			))
		} else {
			cfg.Concurrency = n
		}
	}
	if v := env.Get(EnvPrefix + "VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf(
				"%sVERBOSE: not a boolean: %q", EnvPrefix, v,
			))
		} else {
			cfg.Verbose = b
		}
	}
	if v := env.Get(EnvPrefix + "SCENARIO_DIRS"); v != "" {
		cfg.ScenarioDirs = splitList(v)
	}

	for key, field := range map[string]*string{
		"REPORT_DIR":   &cfg.ReportDir,
		"HISTORY_FILE": &cfg.HistoryFile,
		"METRICS_FILE": &cfg.MetricsFile,
		"LOG_FORMAT":   &cfg.LogFormat,
		"LOG_DIR":      &cfg.LogDir,
	} {
		if v := env.Get(EnvPrefix + key); v != "" {
			*field = v
		}
	}

	return errs
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
