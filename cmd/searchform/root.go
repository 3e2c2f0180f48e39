package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	searchform "github.com/goliatone/go-searchform"
	"github.com/goliatone/go-searchform/internal/config"
	"github.com/goliatone/go-searchform/internal/logging"
	"github.com/goliatone/go-searchform/pkg/hostsearch"
	"github.com/goliatone/go-searchform/pkg/lookup"
	"github.com/goliatone/go-searchform/pkg/registry"
	"github.com/goliatone/go-searchform/pkg/registryfile"
)

// app carries the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger
	form   *searchform.Form
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "searchform",
		Short:         "Build and validate structured search queries",
		Long:          "Inspect a search field registry, validate user input and format it into search query parameters.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to configuration file")
	flags.StringP("registry", "r", "", "Registry file or directory (defaults to the host search registry)")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console or json)")

	_ = a.v.BindPFlag("registry.path", flags.Lookup("registry"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(
		newFieldsCmd(a),
		newBuildCmd(a),
		newValidateCmd(a),
		newChipsCmd(a),
		newParamsCmd(a),
		newPromptCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(a.v, configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: logging.Format(cfg.Logging.Format),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger

	reg, err := loadRegistry(cfg.Registry.Path, logger)
	if err != nil {
		return err
	}
	a.logger.Debug().Int("fields", reg.Len()).Str("registry", describeSource(cfg.Registry.Path)).Msg("searchform: registry loaded")

	fetcher := lookup.NewFetcher(
		lookup.WithLogger(logger),
		lookup.WithTTL(cfg.Lookup.TTL),
		lookup.WithConcurrency(cfg.Lookup.Concurrency),
		lookup.WithBreaker(cfg.Lookup.LookupBreaker()),
	)
	a.form = searchform.New(reg, searchform.WithLogger(logger), searchform.WithFetcher(fetcher))
	return nil
}

func loadRegistry(path string, logger zerolog.Logger) (*registry.Registry, error) {
	if path == "" {
		return hostsearch.New()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	opts := []registryfile.Option{registryfile.WithLogger(logger)}
	if info.IsDir() {
		return registryfile.LoadFS(os.DirFS(path), opts...)
	}
	return registryfile.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path), opts...)
}

func describeSource(path string) string {
	if path == "" {
		return "builtin:hostsearch"
	}
	return path
}
