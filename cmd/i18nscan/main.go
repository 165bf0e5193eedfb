package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"i18nscan/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("i18nscan failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		output      string
		sort        bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "i18nscan [flags] [pattern...]",
		Short: "Extract i18next translation keys from JavaScript, TypeScript and HTML sources",
		Long: strings.TrimSpace(`
i18nscan walks the input patterns, collects every translation key used through
t(), useTranslation, withTranslation, <Trans> and data-i18n attributes, and
writes one JSON resource file per locale and namespace.

Patterns given on the command line replace the configured input list.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("sort") {
				cfg.Sort = sort
			}
			if flags.Changed("concurrency") {
				cfg.Concurrency = max(concurrency, 1)
			}
			if len(args) > 0 {
				cfg.Input = args
			}

			logger := config.SetupLogger(cfg)
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("working directory: %w", err)
			}
			return run(cmd.Context(), cfg, filepath.Clean(wd), logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the configuration file (.toml, .yaml, .yml or .json)")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory the resource files are written to")
	cmd.Flags().BoolVar(&sort, "sort", false, "sort keys in the written resource files")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of files scanned in parallel")
	return cmd
}
