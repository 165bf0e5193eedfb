package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, cfg.Lngs)
	assert.Equal(t, "translation", cfg.DefaultNs)
	assert.Equal(t, ":", cfg.NamespaceSeparator())
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, []string{".html", ".htm", ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}, cfg.Extensions())
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "i18nscan.toml", `
lngs = ["en", "zh-CN"]
ns = ["common", "nav"]
defaultNs = "common"
nsSeparator = false
sort = true

[func]
list = ["t", "translate"]

[resource]
jsonIndent = 4
lineEnding = "CRLF"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "zh-CN"}, cfg.Lngs)
	assert.Equal(t, []string{"common", "nav"}, cfg.Ns)
	assert.Equal(t, "common", cfg.DefaultNs)
	assert.Equal(t, "", cfg.NamespaceSeparator())
	assert.True(t, cfg.Sort)
	assert.Equal(t, []string{"t", "translate"}, cfg.Func.List)
	assert.Equal(t, []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}, cfg.Func.Extensions, "unset keys keep defaults")
	assert.Equal(t, 4, cfg.Resource.JSONIndent)
	assert.Equal(t, "CRLF", cfg.Resource.LineEnding)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "i18nscan.yaml", `
lngs: [fr]
nsSeparator: "::"
trans:
  component: Translate
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, cfg.Lngs)
	assert.Equal(t, "::", cfg.NamespaceSeparator())
	assert.Equal(t, "Translate", cfg.Trans.Component)
	assert.Equal(t, "i18nKey", cfg.Trans.I18nKey)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "i18nscan.json", `{"lngs": ["de"], "defaultValue": "__STRING_NOT_TRANSLATED__"}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"de"}, cfg.Lngs)
	assert.Equal(t, "__STRING_NOT_TRANSLATED__", cfg.DefaultValue)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("I18NSCAN_OUTPUT", "build")
	t.Setenv("I18NSCAN_LNGS", "en,ja")
	t.Setenv("I18NSCAN_RESOURCE_JSON_INDENT", "0")
	t.Setenv("I18NSCAN_LOG_FORMAT", "json")

	cfg, err := Load(writeConfig(t, "c.toml", `output = "ignored"`))
	require.NoError(t, err)
	assert.Equal(t, "build", cfg.Output)
	assert.Equal(t, []string{"en", "ja"}, cfg.Lngs)
	assert.Equal(t, 0, cfg.Resource.JSONIndent)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadUnknownLineEndingFallsBackToLF(t *testing.T) {
	cfg, err := Load(writeConfig(t, "c.toml", "[resource]\nlineEnding = \"BOGUS\""))
	require.NoError(t, err)
	assert.Equal(t, "lf", cfg.Resource.LineEnding)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no locales", `lngs = []`, "lngs must list"},
		{"bad locale", `lngs = ["not a locale"]`, "invalid locale"},
		{"empty default ns", `defaultNs = " "`, "defaultNs is required"},
		{"bad separator type", `nsSeparator = 3`, "nsSeparator must be"},
		{"negative indent", "[resource]\njsonIndent = -1", "jsonIndent"},
		{"bad database url", "[database]\nurl = \"localhost\"", "database.url"},
		{"bad log level", "[log]\nlevel = \"loud\"", "log.level"},
		{"bad log format", "[log]\nformat = \"xml\"", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "c.toml", tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "config:")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetupLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	logger := SetupLogger(cfg)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), -4))
}
