package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/feedback-unfurler/internal/logging"
	"github.com/JakeFAU/feedback-unfurler/internal/server"
)

func newPreviewCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "preview <url>",
		Short: "Print the preview a shared link would get",
		Long: `Runs the classify, resolve and render pipeline for one URL against the
configured store and prints the resulting attachment as JSON. Slack is
not contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Context())
			if err != nil {
				return err
			}
			if lang != "" {
				cfg.Site.Locale = lang
			}
			logger, err := logging.New(logging.Options{Development: true, Level: "warn"})
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort flush

			store, err := server.NewStore(cmd.Context(), cfg, logger.Named(logging.Store))
			if err != nil {
				return err
			}
			defer store.Close()

			u, err := server.NewUnfurler(cfg, store, nil, logger.Named(logging.Unfurl))
			if err != nil {
				return err
			}
			preview, err := u.Preview(cmd.Context(), args[0])
			if err != nil {
				logger.Debug("preview failed", zap.String("url", args[0]), zap.Error(err))
				return fmt.Errorf("no preview for %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(preview)
		},
	}
	cmd.Flags().StringVar(&lang, "locale", "", "override site.locale (ja or en)")
	return cmd
}
