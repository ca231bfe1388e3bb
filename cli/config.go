package cli

import (
	"github.com/compozy/ctxkeeper/cli/helpers"
	"github.com/compozy/ctxkeeper/pkg/config"
	"github.com/spf13/cobra"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration diagnostics",
	}
	cmd.AddCommand(configShowCmd())
	return cmd
}

// keySource describes where one configuration value came from.
type keySource struct {
	Source    config.SourceType `json:"source"`
	EnvVar    string            `json:"env,omitempty"`
	Sensitive bool              `json:"sensitive,omitempty"`
}

type configView struct {
	Config  *config.Config       `json:"config"`
	Sources map[string]keySource `json:"sources,omitempty"`
}

// configShowCmd shows the current configuration with source information
func configShowCmd() *cobra.Command {
	var (
		format      string
		showSources bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values and their sources",
		Long: `Display the effective configuration. With --sources, every key is listed
with the source (cli, env, yaml or default) that provided it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := helpers.ParseOutputFormat(format)
			if err != nil {
				return err
			}
			cfg, service, err := loadConfigWithSources(cmd)
			if err != nil {
				return err
			}
			view := configView{Config: cfg}
			if showSources {
				view.Sources = collectSources(service)
			}
			return helpers.NewOutputWriter(cmd.OutOrStdout(), outputFormat).WriteData(view)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(helpers.OutputFormatYAML), "Output format (json, yaml)")
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

func collectSources(service config.Service) map[string]keySource {
	sources := make(map[string]keySource)
	for _, mapping := range config.GenerateEnvMappings() {
		sources[mapping.ConfigPath] = keySource{
			Source:    service.GetSource(mapping.ConfigPath),
			EnvVar:    mapping.EnvVar,
			Sensitive: config.IsSensitiveConfigPath(mapping.ConfigPath),
		}
	}
	return sources
}
