package cli

import (
	"context"
	"fmt"

	"github.com/compozy/ctxkeeper/pkg/config"
	"github.com/compozy/ctxkeeper/pkg/logger"
	"github.com/compozy/ctxkeeper/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultConfigFile = "ctxkeeper.yaml"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ctxkeeper",
		Short:         "Keep agent message histories within budget without breaking tool pairing",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", defaultConfigFile, "Path to configuration file")
	flags.String("env-file", defaultEnvFile, "Path to environment file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Output logs in JSON format")
	flags.Bool("log-source", false, "Include source location in logs")

	root.AddCommand(
		TrimCmd(),
		ValidateCmd(),
		ConfigCmd(),
	)
	return root
}

// SetupGlobalConfig loads configuration for cmd and attaches it, together
// with a logger writing to stderr, to the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	cfg, _, err := loadConfigWithSources(cmd)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(
		cmd.ErrOrStderr(),
		logger.LogLevel(cfg.Runtime.LogLevel),
		cfg.Runtime.LogJSON,
		cfg.Runtime.LogSource,
	)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	return nil
}

// loadConfigWithSources layers the YAML file, the environment (extended by
// --env-file) and explicitly set flags over the defaults.
func loadConfigWithSources(cmd *cobra.Command) (*config.Config, config.Service, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	environ, err := environWithEnvFile(cmd)
	if err != nil {
		return nil, nil, err
	}
	service := config.NewService(config.WithEnviron(environ))
	cfg, err := service.Load(
		cmd.Context(),
		config.NewYAMLProvider(configFile),
		config.NewCLIProvider(changedFlags(cmd)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, service, nil
}

func changedFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if _, ok := config.CLIFlagPath(f.Name); ok {
			flags[f.Name] = f.Value.String()
		}
	})
	return flags
}
