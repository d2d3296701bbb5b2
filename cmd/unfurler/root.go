package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/feedback-unfurler/internal/config"
)

type configKeyType string

const configKey configKeyType = "config"

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "unfurler",
		Short: "Slack link unfurler for nextnjrfeedback.net knowledge and discussions.",
		Long: `unfurler listens for Slack link_shared events, looks up the knowledge
articles and discussions behind shared links and attaches rich previews
to the original message.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, &cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	cmd.AddCommand(newServeCmd(), newPreviewCmd())
	return cmd
}

func resolveConfig(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
