package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/domain"
	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/namespace"
	"i18nscan/internal/infrastructure/jsparse"
	"i18nscan/internal/infrastructure/markup"
)

func newTestScanner() *Scanner {
	opts := DefaultScanOptions()
	return NewScanner(
		opts,
		namespace.NewResolver("translation", namespace.WithTable(namespace.DefaultTableName, map[string]string{"Nav": "navigation"})),
		jsparse.NewParser(),
		markup.NewExtractor(opts.AttrList),
	)
}

func scan(t *testing.T, path, src string) entities.ScanResult {
	t.Helper()
	res, err := newTestScanner().Scan(context.Background(), entities.SourceUnit{Path: path, Text: []byte(src)})
	require.NoError(t, err)
	return res
}

// summary renders observations as "pass ns key" for compact assertions.
func summary(res entities.ScanResult) []string {
	out := make([]string, 0, len(res.Observations))
	for _, o := range res.Observations {
		out = append(out, string(o.Pass)+" "+o.Namespace+" "+o.Key)
	}
	return out
}

func diagCodes(res entities.ScanResult) []string {
	var out []string
	for _, d := range res.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestScanHookBinding(t *testing.T) {
	res := scan(t, "home.jsx", `
import { useTranslation } from 'react-i18next';

function Home() {
  const { t } = useTranslation('common');
  return <h1>{t('title')}{t('a:b', { ns: 'other' })}</h1>;
}
`)
	require.Len(t, res.Observations, 2)
	assert.Equal(t, []string{"hook common title", "hook common a:b"}, summary(res))
	for _, o := range res.Observations {
		_, enabled := o.NsSeparator.Resolve(":")
		assert.False(t, enabled, "nsSeparator must be disabled for hook keys")
	}
	assert.Empty(t, res.Diagnostics)
}

func TestScanHookAliasForms(t *testing.T) {
	res := scan(t, "forms.js", `
function A() {
  const i18n = useTranslation(I18nNamespace.Nav);
  i18n.t('one');
}
function B() {
  const { t: tr } = useTranslation("renamed");
  tr('two');
  t('plain');
}
function C() {
  const [translate] = useTranslation(['first', 'second']);
  translate('three');
}
`)
	assert.Equal(t, []string{
		"hook navigation one",
		"hook renamed two",
		"func  plain",
		"hook first three",
	}, summary(res))
}

func TestScanHookObjectWithoutT(t *testing.T) {
	res := scan(t, "shop.jsx", `
function Cart() {
  const { i18n } = useTranslation('shop');
  t('cart');
  i18n.t('total');
}
function Lang() {
  const { ready } = useTranslation('lang');
  t('switch');
}
function Renamed() {
  const { t: tr } = useTranslation('renamed');
  t('outside');
}
`)
	assert.Equal(t, []string{
		"hook shop cart",
		"hook shop total",
		"hook lang switch",
		"func  outside",
	}, summary(res))
}

func TestScanHookScopedToFunction(t *testing.T) {
	res := scan(t, "scoped.js", `
function A() { const { t } = useTranslation('a'); t('one'); }
function B() { const { t } = useTranslation('b'); t('two'); }
t('three');
`)
	assert.Equal(t, []string{"hook a one", "hook b two", "func  three"}, summary(res))
}

func TestScanSingleHOC(t *testing.T) {
	res := scan(t, "comp.jsx", `
function Comp(props) {
  props.t('hello');
  t('bare');
  t('explicit', { ns: 'other' });
  return null;
}
export default withTranslation('nav')(Comp);
`)
	assert.Equal(t, []string{"hoc nav hello", "hoc nav bare", "hoc other explicit"}, summary(res))
	assert.Empty(t, res.Diagnostics)
}

func TestScanHOCLeavesPlainTToHook(t *testing.T) {
	res := scan(t, "comp.jsx", `
function Comp(props) {
  const { t } = useTranslation('hooked');
  t('a');
  this.props.t('b');
}
export default withTranslation('wrapped')(Comp);
`)
	assert.Equal(t, []string{"hook hooked a", "hoc wrapped b"}, summary(res))
}

func TestScanMultipleHOC(t *testing.T) {
	res := scan(t, "two.jsx", `
function Home() {
  const { t } = useTranslation('common');
  t('title');
}
function Other(props) {
  props.t('x');
}
export const A = withTranslation('a')(Home);
export const B = withTranslation('b')(Other);
`)
	for _, o := range res.Observations {
		assert.NotEqual(t, entities.PassHOC, o.Pass)
	}
	assert.Equal(t, []string{"hook common title", "func  x"}, summary(res))
	assert.Equal(t, []string{string(domain.DiagMultipleHOC)}, diagCodes(res))
}

func TestScanFuncOptions(t *testing.T) {
	res := scan(t, "app.ts", `
i18next.t('ns1:key', 'Default text');
t('apple', { defaultValue: 'An apple', count: n, context: 'green', lngs: ['en'] });
t('sep', 'fallback', { nsSeparator: false });
i18n.t('member');
other('ignored');
`)
	require.Len(t, res.Observations, 4)

	first := res.Observations[0]
	assert.Equal(t, "ns1:key", first.Key)
	assert.Equal(t, "Default text", first.DefaultValue)
	assert.Equal(t, "", first.Namespace)
	assert.Equal(t, entities.PassFunc, first.Pass)

	apple := res.Observations[1]
	assert.Equal(t, "An apple", apple.DefaultValue)
	assert.True(t, apple.Count)
	assert.Equal(t, "green", apple.Context)
	assert.Equal(t, []string{"en"}, apple.Locales)

	sep := res.Observations[2]
	assert.Equal(t, "fallback", sep.DefaultValue)
	_, enabled := sep.NsSeparator.Resolve(":")
	assert.False(t, enabled)

	assert.Equal(t, "member", res.Observations[3].Key)
}

func TestScanDynamicKey(t *testing.T) {
	res := scan(t, "dyn.js", "t(name);\nt(`a${b}`);\nt('ok');\n")
	assert.Equal(t, []string{"func  ok"}, summary(res))
	assert.Equal(t, []string{string(domain.DiagDynamicKey), string(domain.DiagDynamicKey)}, diagCodes(res))
	assert.Equal(t, 1, res.Diagnostics[0].Line)
}

func TestScanTrans(t *testing.T) {
	res := scan(t, "trans.jsx", `
function Page({ name }) {
  const { t } = useTranslation('common');
  return (
    <div>
      <Trans i18nKey="welcome" t={t}>
        Hello <strong>{{ name }}</strong>, click <Link to="/">here</Link>.
      </Trans>
      <Trans ns="home">Line<br />two <strong>bold</strong></Trans>
      <Trans i18nKey="fruit" count={n} context="red" defaults="Some fruit" />
      <I18n.Trans i18nKey="member" />
      <Trans />
    </div>
  );
}
`)
	assert.Equal(t, []string{
		"trans common welcome",
		"trans home Line<br/>two <strong>bold</strong>",
		"trans translation fruit",
		"trans translation member",
	}, summary(res))

	welcome := res.Observations[0]
	assert.Equal(t, "Hello <1>{{name}}</1>, click <3>here</3>.", welcome.DefaultValue)
	_, enabled := welcome.NsSeparator.Resolve(":")
	assert.False(t, enabled)

	fruit := res.Observations[2]
	assert.True(t, fruit.Count)
	assert.Equal(t, "red", fruit.Context)
	assert.Equal(t, "Some fruit", fruit.DefaultValue)

	assert.Equal(t, []string{string(domain.DiagMissingKey)}, diagCodes(res))
}

func TestScanTransExtensionGate(t *testing.T) {
	res := scan(t, "legacy.mjs", `const x = <Trans i18nKey="skip" />; t('kept');`)
	assert.Equal(t, []string{"func  kept"}, summary(res))
}

func TestScanAttributes(t *testing.T) {
	res := scan(t, "index.html", `<html><body>
<p data-i18n="[title]tooltip;common:body">x</p>
<span data-i18n="plain"></span>
</body></html>`)
	assert.Equal(t, []string{"attr  tooltip", "attr  common:body", "attr  plain"}, summary(res))
	assert.Equal(t, 2, res.Observations[0].Line)
}

func TestScanUnknownExtension(t *testing.T) {
	res := scan(t, "notes.txt", "t('nope')")
	assert.Empty(t, res.Observations)
	assert.Empty(t, res.Diagnostics)
}

func TestCleanJSXText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello ", "Hello "},
		{"\n    Hello\n    world\n  ", "Hello world"},
		{"\n   \n", ""},
		{"a\tb", "a b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSXText(tt.in), "%q", tt.in)
	}
}
