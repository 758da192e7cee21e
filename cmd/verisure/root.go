package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/internal/config"
	"github.com/goliatone/go-verisure/internal/logging"
	"github.com/goliatone/go-verisure/pkg/api"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	baseURL    string
	logLevel   string
	dev        bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "verisure",
		Short:         "Certificate issuance and verification pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (YAML)")
	flags.StringVar(&a.baseURL, "base-url", "", "API base URL, overrides base_url")
	flags.StringVar(&a.logLevel, "log-level", "", "log level, overrides log.level")
	flags.BoolVar(&a.dev, "dev", false, "development logging")

	root.AddCommand(
		newRenderCommand(a),
		newRunCommand(a),
		newServeCommand(a),
		newStatusCommand(a),
		newCertificatesCommand(a),
		newConfigCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = a.baseURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Log.Development = a.dev
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) client() (*api.Client, error) {
	return api.NewClient(a.cfg.BaseURL, api.WithLogger(a.logger.Named("api")))
}
