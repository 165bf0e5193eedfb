package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. I18NSCAN_OUTPUT.
const EnvPrefix = "I18NSCAN_"

type Config struct {
	Input       []string `toml:"input" yaml:"input" json:"input" env:"INPUT"`
	Output      string   `toml:"output" yaml:"output" json:"output" env:"OUTPUT"`
	Sort        bool     `toml:"sort" yaml:"sort" json:"sort" env:"SORT"`
	Concurrency int      `toml:"concurrency" yaml:"concurrency" json:"concurrency" env:"CONCURRENCY"`

	Lngs             []string `toml:"lngs" yaml:"lngs" json:"lngs" env:"LNGS"`
	Ns               []string `toml:"ns" yaml:"ns" json:"ns" env:"NS"`
	DefaultNs        string   `toml:"defaultNs" yaml:"defaultNs" json:"defaultNs" env:"DEFAULT_NS"`
	DefaultValue     string   `toml:"defaultValue" yaml:"defaultValue" json:"defaultValue" env:"DEFAULT_VALUE"`
	ContextSeparator string   `toml:"contextSeparator" yaml:"contextSeparator" json:"contextSeparator" env:"CONTEXT_SEPARATOR"`
	PluralSeparator  string   `toml:"pluralSeparator" yaml:"pluralSeparator" json:"pluralSeparator" env:"PLURAL_SEPARATOR"`
	Plural           bool     `toml:"plural" yaml:"plural" json:"plural" env:"PLURAL"`
	Context          bool     `toml:"context" yaml:"context" json:"context" env:"CONTEXT"`
	NamespaceTable   string   `toml:"namespaceTable" yaml:"namespaceTable" json:"namespaceTable" env:"NAMESPACE_TABLE"`
	// NsSeparator is a string or false.
	NsSeparator any `toml:"nsSeparator" yaml:"nsSeparator" json:"nsSeparator"`

	Attr  PassConfig  `toml:"attr" yaml:"attr" json:"attr" envPrefix:"ATTR_"`
	Func  PassConfig  `toml:"func" yaml:"func" json:"func" envPrefix:"FUNC_"`
	Hook  ListConfig  `toml:"hook" yaml:"hook" json:"hook" envPrefix:"HOOK_"`
	HOC   ListConfig  `toml:"hoc" yaml:"hoc" json:"hoc" envPrefix:"HOC_"`
	Trans TransConfig `toml:"trans" yaml:"trans" json:"trans" envPrefix:"TRANS_"`

	Resource    ResourceConfig    `toml:"resource" yaml:"resource" json:"resource" envPrefix:"RESOURCE_"`
	Database    DatabaseConfig    `toml:"database" yaml:"database" json:"database" envPrefix:"DATABASE_"`
	Log         LogConfig         `toml:"log" yaml:"log" json:"log" envPrefix:"LOG_"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics" json:"diagnostics" envPrefix:"DIAGNOSTICS_"`
}

type PassConfig struct {
	List       []string `toml:"list" yaml:"list" json:"list" env:"LIST"`
	Extensions []string `toml:"extensions" yaml:"extensions" json:"extensions" env:"EXTENSIONS"`
}

type ListConfig struct {
	List []string `toml:"list" yaml:"list" json:"list" env:"LIST"`
}

type TransConfig struct {
	Component             string   `toml:"component" yaml:"component" json:"component" env:"COMPONENT"`
	I18nKey               string   `toml:"i18nKey" yaml:"i18nKey" json:"i18nKey" env:"I18N_KEY"`
	DefaultsKey           string   `toml:"defaultsKey" yaml:"defaultsKey" json:"defaultsKey" env:"DEFAULTS_KEY"`
	Extensions            []string `toml:"extensions" yaml:"extensions" json:"extensions" env:"EXTENSIONS"`
	KeepBasicHtmlNodesFor []string `toml:"keepBasicHtmlNodesFor" yaml:"keepBasicHtmlNodesFor" json:"keepBasicHtmlNodesFor" env:"KEEP_BASIC_HTML_NODES_FOR"`
}

type ResourceConfig struct {
	LoadPath             string `toml:"loadPath" yaml:"loadPath" json:"loadPath" env:"LOAD_PATH"`
	SavePath             string `toml:"savePath" yaml:"savePath" json:"savePath" env:"SAVE_PATH"`
	JSONIndent           int    `toml:"jsonIndent" yaml:"jsonIndent" json:"jsonIndent" env:"JSON_INDENT"`
	LineEnding           string `toml:"lineEnding" yaml:"lineEnding" json:"lineEnding" env:"LINE_ENDING"`
	AutoBackup           bool   `toml:"autoBackup" yaml:"autoBackup" json:"autoBackup" env:"AUTO_BACKUP"`
	BackupSourcePath     string `toml:"backupSourcePath" yaml:"backupSourcePath" json:"backupSourcePath" env:"BACKUP_SOURCE_PATH"`
	BackupPath           string `toml:"backupPath" yaml:"backupPath" json:"backupPath" env:"BACKUP_PATH"`
	GenerateNamespaceMap bool   `toml:"generateNamespaceMap" yaml:"generateNamespaceMap" json:"generateNamespaceMap" env:"GENERATE_NAMESPACE_MAP"`
	NamespaceMapPath     string `toml:"namespaceMapPath" yaml:"namespaceMapPath" json:"namespaceMapPath" env:"NAMESPACE_MAP_PATH"`
}

type DatabaseConfig struct {
	URL     string `toml:"url" yaml:"url" json:"url" env:"URL"`
	Migrate bool   `toml:"migrate" yaml:"migrate" json:"migrate" env:"MIGRATE"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level" env:"LEVEL"`
	Format string `toml:"format" yaml:"format" json:"format" env:"FORMAT"`
}

type DiagnosticsConfig struct {
	Locale string `toml:"locale" yaml:"locale" json:"locale" env:"LOCALE"`
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Input:            []string{"src/**/*.{js,jsx,ts,tsx,mjs,cjs,html,htm}"},
		Output:           ".",
		Concurrency:      1,
		Lngs:             []string{"en"},
		DefaultNs:        "translation",
		ContextSeparator: "_",
		PluralSeparator:  "_",
		Plural:           true,
		Context:          true,
		NamespaceTable:   "I18nNamespace",
		NsSeparator:      ":",
		Attr: PassConfig{
			List:       []string{"data-i18n"},
			Extensions: []string{".html", ".htm"},
		},
		Func: PassConfig{
			List:       []string{"t", "i18next.t"},
			Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
		},
		Hook: ListConfig{List: []string{"useTranslation"}},
		HOC:  ListConfig{List: []string{"withTranslation"}},
		Trans: TransConfig{
			Component:             "Trans",
			I18nKey:               "i18nKey",
			DefaultsKey:           "defaults",
			Extensions:            []string{".js", ".jsx", ".ts", ".tsx"},
			KeepBasicHtmlNodesFor: []string{"br", "strong", "i", "p"},
		},
		Resource: ResourceConfig{
			SavePath:         "i18n/{{lng}}/{{ns}}.json",
			JSONIndent:       2,
			LineEnding:       "lf",
			BackupSourcePath: "i18n",
			BackupPath:       "i18n-backup",
			NamespaceMapPath: "src/i18n/namespaces.js",
		},
		Log:         LogConfig{Level: "info", Format: "text"},
		Diagnostics: DiagnosticsConfig{Locale: "en"},
	}
}

// Load reads the optional configuration file at path, then .env and
// I18NSCAN_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional when variables come from the environment (CI, containers).
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(c)
	default:
		err = toml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// NamespaceSeparator returns the configured separator, or "" when
// splitting is disabled.
func (c *Config) NamespaceSeparator() string {
	switch v := c.NsSeparator.(type) {
	case string:
		return v
	case bool:
		if v {
			return ":"
		}
	}
	return ""
}

// Extensions returns the union of every pass's extensions in first-seen order.
func (c *Config) Extensions() []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range [][]string{c.Attr.Extensions, c.Func.Extensions, c.Trans.Extensions} {
		for _, ext := range list {
			ext = strings.ToLower(ext)
			if !seen[ext] {
				seen[ext] = true
				out = append(out, ext)
			}
		}
	}
	return out
}

// validate enforces the rules every consumer of the configuration relies on.
func (c *Config) validate() error {
	if len(c.Lngs) == 0 {
		return fmt.Errorf("config: lngs must list at least one locale")
	}
	for _, lng := range c.Lngs {
		if _, err := language.Parse(lng); err != nil {
			return fmt.Errorf("config: invalid locale %q: %w", lng, err)
		}
	}
	if strings.TrimSpace(c.DefaultNs) == "" {
		return fmt.Errorf("config: defaultNs is required")
	}

	switch c.NsSeparator.(type) {
	case nil:
		c.NsSeparator = ""
	case string:
	case bool:
	default:
		return fmt.Errorf("config: nsSeparator must be a string or false, got %T", c.NsSeparator)
	}

	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Resource.JSONIndent < 0 {
		return fmt.Errorf("config: resource.jsonIndent must not be negative")
	}
	switch c.Resource.LineEnding {
	case "\r\n", "\n", "\r":
	default:
		switch strings.ToLower(strings.TrimSpace(c.Resource.LineEnding)) {
		case "", "auto", "crlf", "lf", "cr":
		default:
			c.Resource.LineEnding = "lf"
		}
	}
	if c.Resource.AutoBackup && strings.TrimSpace(c.Resource.BackupPath) == "" {
		return fmt.Errorf("config: resource.backupPath is required when autoBackup is set")
	}

	if c.Database.URL != "" {
		parsed, err := url.Parse(c.Database.URL)
		if err != nil {
			return fmt.Errorf("config: invalid database.url (%q): %w", c.Database.URL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid database.url (%q): missing scheme or host", c.Database.URL)
		}
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := language.Parse(c.Diagnostics.Locale); err != nil {
		return fmt.Errorf("config: invalid diagnostics.locale %q: %w", c.Diagnostics.Locale, err)
	}
	return nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return lvl, fmt.Errorf("config: invalid log.level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// SetupLogger installs the process-wide slog logger described by cfg.
func SetupLogger(cfg *Config) *slog.Logger {
	lvl, err := cfg.LogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: lvl, TimeFormat: time.Kitchen})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
