package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"digital.vasic.grader/pkg/config"
	"digital.vasic.grader/pkg/exercises"
	"digital.vasic.grader/pkg/logging"
	"digital.vasic.grader/pkg/registry"
)

const defaultEnvFile = ".env"

// app holds the state shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	envFile    string
	verbose    bool
	noColor    bool
	logFormat  string

	cfg config.Config
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "grader <command> [options]",
		Short: "Grade exercise submissions and self-test the exercise catalog.",
		Long: heredoc.Doc(`
			grader validates learner submissions against the exercise
			catalog and self-tests every grader against its scenarios.

			Configuration is read from an optional YAML file, then
			overridden by GRADER_* variables from the environment or a
			.env file, then by command-line flags.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.envFile, "env-file", "",
		"path to a .env file (default: ./.env when present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.noColor, "no-color", false, "disable coloured output")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(newValidateAllCommand(a))
	rootCmd.AddCommand(newGradeCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newScaffoldCommand(a))

	return rootCmd
}

// loadConfig resolves the layered configuration and applies the
// persistent flag overrides.
func (a *app) loadConfig(cmd *cobra.Command) error {
	env := config.NewEnvLoader()
	switch {
	case a.envFile != "":
		if err := env.Load(a.envFile); err != nil {
			return err
		}
	default:
		if _, err := os.Stat(defaultEnvFile); err == nil {
			if err := env.Load(defaultEnvFile); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.configPath, env)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	a.cfg = cfg
	return nil
}

// revalidate checks the configuration after command flags have
// been applied on top of it.
func (a *app) revalidate() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (a *app) useColor() bool {
	return !a.noColor && !color.NoColor
}

// newLogger builds the logger selected by the configuration.
// Console output goes to stderr so it never mixes with command
// output; a log directory adds JSON log files alongside.
func (a *app) newLogger() (logging.Logger, error) {
	var loggers []logging.Logger

	switch a.cfg.LogFormat {
	case "json":
		level := logging.LevelInfo
		if a.cfg.Verbose {
			level = logging.LevelDebug
		}
		jsonLogger, err := logging.NewJSONLogger(logging.LoggerConfig{
			Level:   level,
			Verbose: a.cfg.Verbose,
		})
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, jsonLogger)
	default:
		loggers = append(loggers, logging.NewConsoleLoggerTo(
			a.stderr, a.cfg.Verbose, a.useColor(),
		))
	}

	if a.cfg.LogDir != "" {
		fileLogger, err := logging.SetupLogging(a.cfg.LogDir, a.cfg.Verbose)
		if err != nil {
			return nil, fmt.Errorf("set up log directory: %w", err)
		}
		loggers = append(loggers, fileLogger)
	}

	if len(loggers) == 1 {
		return loggers[0], nil
	}
	return logging.NewMultiLogger(loggers...), nil
}

// newCatalog registers every exercise grader.
func newCatalog() (*registry.DefaultRegistry, error) {
	reg := registry.NewRegistry()
	if err := exercises.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}
	return reg, nil
}

// errUnhealthy is returned when a batch self-test finds a grader
// disagreeing with its scenarios.
var errUnhealthy = errors.New("unhealthy graders")

// errNotPassed is returned when a graded submission fails.
var errNotPassed = errors.New("submission did not pass")
