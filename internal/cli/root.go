// Package cli wires the comparch commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/frherrer/component-architect/internal/config"
)

const (
	keyringService = "comparch"
	keyringUser    = "api-key"
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// app holds the persistent flag values and the logger shared by all commands.
type app struct {
	cfgFile  string
	verbose  bool
	dryRun   bool
	model    string
	provider string
	output   string

	log     *logrus.Logger
	logFile io.Closer
}

// NewRootCommand builds the comparch command tree.
func NewRootCommand() *cobra.Command {
	a := &app{log: logrus.New()}

	rootCmd := &cobra.Command{
		Use:   "comparch",
		Short: "Generate design-system compliant Angular components",
		Long: `comparch asks a language model for an Angular component, validates the
three generated files against structural rules and the design token policy,
and gives the model one chance to repair what failed.

Settings come from a YAML configuration file (comparch.yaml).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log.SetOutput(cmd.ErrOrStderr())
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logFile != nil {
				a.logFile.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "comparch.yaml", "config file path")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&a.dryRun, "dry-run", false, "validate but don't write component files")
	flags.StringVar(&a.model, "model", "", "model name (overrides model.name)")
	flags.StringVar(&a.provider, "provider", "", "model provider: anthropic or openai")
	flags.StringVar(&a.output, "output", "", "output directory (overrides output.directory)")

	rootCmd.AddCommand(
		a.generateCommand(),
		a.lintCommand(),
		a.validateCommand(),
		a.historyCommand(),
		a.authCommand(),
		a.doctorCommand(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig reads the config file (defaults when it is absent), applies
// environment and flag overrides and validates the result.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(a.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := a.applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := a.configureLogger(cfg.Logging); err != nil {
		return nil, err
	}
	a.log.Debugf("Loaded config: %+v", redacted(cfg))
	return cfg, nil
}

// applyOverrides layers flags over COMPARCH_* environment variables over the file.
func (a *app) applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	v.SetEnvPrefix("comparch")
	v.AutomaticEnv()

	binds := []struct {
		key  string
		envs []string
		flag string
	}{
		{"model.name", []string{"COMPARCH_MODEL"}, "model"},
		{"model.provider", []string{"COMPARCH_PROVIDER"}, "provider"},
		{"model.base_url", []string{"COMPARCH_BASE_URL"}, ""},
		{"model.api_key", []string{"COMPARCH_API_KEY", "ANTHROPIC_API_KEY"}, ""},
		{"output.directory", []string{"COMPARCH_OUTPUT"}, "output"},
	}
	for _, b := range binds {
		if err := v.BindEnv(append([]string{b.key}, b.envs...)...); err != nil {
			return fmt.Errorf("binding %s: %w", b.key, err)
		}
		if b.flag == "" {
			continue
		}
		if f := cmd.Flags().Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", b.flag, err)
			}
		}
	}

	set := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	set("model.name", &cfg.Model.Name)
	set("model.provider", &cfg.Model.Provider)
	set("model.base_url", &cfg.Model.BaseURL)
	set("model.api_key", &cfg.Model.APIKey)
	set("output.directory", &cfg.Output.Directory)

	if a.dryRun {
		cfg.Output.DryRun = true
	}
	return nil
}

// configureLogger applies the logging section. --verbose always wins over the level.
func (a *app) configureLogger(lc config.LoggingConfig) error {
	if !a.verbose {
		level, err := logrus.ParseLevel(lc.Level)
		if err != nil {
			return fmt.Errorf("invalid logging level: %w", err)
		}
		a.log.SetLevel(level)
	}

	switch lc.Format {
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.log.SetOutput(io.MultiWriter(a.log.Out, f))
		a.logFile = f
	}
	return nil
}

// apiKey returns the configured key, falling back to the OS keychain.
// An empty result lets the client report the missing key.
func (a *app) apiKey(cfg *config.Config) string {
	if cfg.Model.APIKey != "" {
		return cfg.Model.APIKey
	}
	key, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			a.log.WithError(err).Debug("Keychain unavailable")
		}
		return ""
	}
	return key
}

func redacted(cfg *config.Config) config.Config {
	c := *cfg
	if c.Model.APIKey != "" {
		c.Model.APIKey = "***"
	}
	return c
}
