package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/alloy/internal/config"
	"github.com/zjrosen/alloy/internal/forge"
	"github.com/zjrosen/alloy/internal/log"
)

var version = "dev"

// rootOptions carries the state shared by every command of one invocation.
type rootOptions struct {
	cfgFile string
	debug   bool

	cfg     config.Config
	cfgPath string

	svc        *forge.Service
	logCleanup func()
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "alloy",
		Short: "Generate variants of declared templates",
		Long: `alloy builds variants of templates. A template names the ingredients
applied to every new unit and a compose script that customizes the unit with
the arguments given at generation time.

Built-in templates ship with the binary; your own declarations live in the
templates directory (default: ~/.alloy/templates).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.loadConfig(); err != nil {
				return err
			}
			return opts.initLogging()
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "",
		"config file (default: ~/.config/alloy/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false,
		"write a debug log (also enabled by ALLOY_DEBUG)")

	root.AddCommand(
		newGenerateCmd(opts),
		newTemplateListCmd(opts),
		newTemplateValidateCmd(opts),
		newIngredientListCmd(opts),
		newConfigInitCmd(opts),
		newFlagSetCmd(opts),
	)
	return root, opts
}

func (o *rootOptions) loadConfig() error {
	v := viper.New()
	setDefaults(v, config.Defaults())

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		// Config lookup order:
		// 1. .alloy/config.yaml (current directory)
		// 2. ~/.config/alloy/config.yaml (user config)
		if _, err := os.Stat(filepath.Join(".alloy", "config.yaml")); err == nil {
			v.SetConfigFile(filepath.Join(".alloy", "config.yaml"))
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "alloy"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without a config file every setting keeps its default.
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&o.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	o.cfgPath = v.ConfigFileUsed()
	o.cfg.TemplatesDir = expandHome(o.cfg.TemplatesDir)
	o.cfg.Tracing.FilePath = expandHome(o.cfg.Tracing.FilePath)

	if o.cfg.Tracing.Enabled && o.cfg.Tracing.Exporter == "file" && o.cfg.Tracing.FilePath == "" {
		o.cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	if err := config.Validate(o.cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func setDefaults(v *viper.Viper, defaults config.Config) {
	v.SetDefault("templates_dir", defaults.TemplatesDir)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("store.retention", defaults.Store.Retention)
	v.SetDefault("store.cleanup_interval", defaults.Store.CleanupInterval)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

func (o *rootOptions) initLogging() error {
	debug := o.debug || os.Getenv("ALLOY_DEBUG") != ""

	logPath := o.cfg.Log.Path
	if debug && logPath == "" {
		logPath = "debug.log"
	}
	if logPath == "" {
		return nil
	}

	cleanup, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("initializing log: %w", err)
	}
	o.logCleanup = cleanup

	level := log.ParseLevel(o.cfg.Log.Level)
	if debug {
		level = log.LevelDebug
	}
	log.SetMinLevel(level)
	log.Info(log.CatCLI, "alloy starting", "version", version, "config", o.cfgPath, "log", logPath)
	return nil
}

// service returns the forge service, creating it on first use.
func (o *rootOptions) service() (*forge.Service, error) {
	if o.svc != nil {
		return o.svc, nil
	}
	svc, err := forge.New(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("starting forge: %w", err)
	}
	o.svc = svc
	return svc, nil
}

func (o *rootOptions) close() {
	if o.svc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.svc.Close(ctx); err != nil {
			log.ErrorErr(log.CatCLI, "Closing forge", err)
		}
		o.svc = nil
	}
	if o.logCleanup != nil {
		o.logCleanup()
		o.logCleanup = nil
	}
}

// Execute runs the root command
func Execute() error {
	root, opts := newRootCmd()
	defer opts.close()
	return root.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
