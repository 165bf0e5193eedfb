package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/text/language"

	"i18nscan/internal/application"
	"i18nscan/internal/config"
	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/namespace"
	"i18nscan/internal/domain/resource"
	"i18nscan/internal/infrastructure/database"
	"i18nscan/internal/infrastructure/filesystem"
	"i18nscan/internal/infrastructure/i18n"
	"i18nscan/internal/infrastructure/jsparse"
	"i18nscan/internal/infrastructure/markup"
	"i18nscan/internal/infrastructure/serializer"
	"i18nscan/internal/infrastructure/workerpool"
	"i18nscan/internal/ports/output"
)

// run wires the adapters described by cfg and executes one extraction
// rooted at root.
func run(ctx context.Context, cfg *config.Config, root string, logger *slog.Logger) error {
	outDir := under(root, cfg.Output)

	if cfg.Resource.AutoBackup {
		dst, err := filesystem.Backup(under(root, cfg.Resource.BackupSourcePath), under(root, cfg.Resource.BackupPath), time.Now())
		if err != nil {
			return err
		}
		if dst != "" {
			logger.Info("resources backed up", "path", dst)
		}
	}

	ser := serializer.New(serializer.Options{
		Indent:     cfg.Resource.JSONIndent,
		LineEnding: serializer.LineEnding(cfg.Resource.LineEnding),
		SavePath:   cfg.Resource.SavePath,
	})
	store := resource.NewStore(resource.Options{
		Locales:          cfg.Lngs,
		Namespaces:       cfg.Ns,
		DefaultNS:        cfg.DefaultNs,
		DefaultValue:     cfg.DefaultValue,
		NsSeparator:      cfg.NamespaceSeparator(),
		ContextSeparator: cfg.ContextSeparator,
		PluralSeparator:  cfg.PluralSeparator,
		Plural:           cfg.Plural,
		Context:          cfg.Context,
		SavePath:         ser.FormatResourceSavePath,
	})
	if cfg.Resource.LoadPath != "" {
		n, err := filesystem.LoadResources(outDir, cfg.Resource.LoadPath, store.Locales(), store.Namespaces(), store)
		if err != nil {
			return fmt.Errorf("load resources: %w", err)
		}
		logger.Debug("existing resources loaded", "bundles", n)
	}

	table := make(map[string]string, len(cfg.Ns))
	for _, ns := range cfg.Ns {
		table[ns] = ns
	}
	resolver := namespace.NewResolver(cfg.DefaultNs, namespace.WithTable(cfg.NamespaceTable, table))
	scanner := application.NewScanner(scanOptions(cfg), resolver, jsparse.NewParser(), markup.NewExtractor(cfg.Attr.List))

	writers := []output.BundleWriter{filesystem.NewBundleWriter(outDir)}
	if cfg.Database.URL != "" {
		if cfg.Database.Migrate {
			if err := database.RunMigrations(cfg.Database.URL, logger); err != nil {
				return err
			}
		}
		pool, err := database.NewPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		writers = append(writers, database.NewBundleRepository(pool))
	}

	translator := i18n.NewTranslator("en")
	if !hasCatalog(translator.Locales(), cfg.Diagnostics.Locale) {
		logger.Warn("no diagnostic catalog for locale, falling back to English", "locale", cfg.Diagnostics.Locale)
	}
	opts := []application.PipelineOption{
		application.WithSort(cfg.Sort),
		application.WithDiagnostics(translator, cfg.Diagnostics.Locale),
		application.WithLogger(logger),
	}
	if cfg.Concurrency > 1 {
		pool, err := workerpool.New(cfg.Concurrency, workerpool.WithLogger(logger))
		if err != nil {
			return err
		}
		defer pool.Release()
		opts = append(opts, application.WithPool(pool))
	}
	pipeline := application.NewPipeline(filesystem.NewSourceReader(root), scanner, store, ser, writers, opts...)

	paths, err := filesystem.Discover(root, cfg.Input, cfg.Extensions())
	if err != nil {
		return err
	}
	logger.Debug("input discovered", "files", len(paths))

	report, err := pipeline.Run(ctx, paths)
	if err != nil {
		return err
	}

	if cfg.Resource.GenerateNamespaceMap {
		mapPath := under(root, cfg.Resource.NamespaceMapPath)
		if err := filesystem.WriteNamespaceMap(mapPath, cfg.NamespaceTable, store.Namespaces()); err != nil {
			return err
		}
		logger.Info("namespace map written", "path", mapPath)
	}

	logSummary(logger, report)
	return nil
}

func scanOptions(cfg *config.Config) application.ScanOptions {
	return application.ScanOptions{
		AttrList:              cfg.Attr.List,
		AttrExtensions:        cfg.Attr.Extensions,
		FuncList:              cfg.Func.List,
		FuncExtensions:        cfg.Func.Extensions,
		HookList:              cfg.Hook.List,
		HOCList:               cfg.HOC.List,
		TransExtensions:       cfg.Trans.Extensions,
		TransComponent:        cfg.Trans.Component,
		TransI18nKey:          cfg.Trans.I18nKey,
		TransDefaultsKey:      cfg.Trans.DefaultsKey,
		KeepBasicHTMLNodesFor: cfg.Trans.KeepBasicHtmlNodesFor,
	}
}

func logSummary(logger *slog.Logger, report *entities.Report) {
	logger.Info("scan complete",
		"files", report.Units,
		"documents", len(report.Documents),
		"keys", report.Keys,
		"diagnostics", len(report.Diagnostics),
	)
}

// hasCatalog reports whether locale shares a base language with one of the
// catalog locales.
func hasCatalog(catalogs []string, locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	for _, c := range catalogs {
		ct, err := language.Parse(c)
		if err != nil {
			continue
		}
		if b, _ := ct.Base(); b == base {
			return true
		}
	}
	return false
}

func under(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
