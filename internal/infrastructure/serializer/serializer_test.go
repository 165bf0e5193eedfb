package serializer

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/resource"
)

func sampleBundle() resource.Bundle {
	return resource.Bundle{
		Locale:    "en",
		Namespace: "common",
		Keys:      []string{"b", "a", "html"},
		Values:    map[string]string{"a": "Apple", "b": "Banana", "html": "Hi <0>there</0> & \"you\""},
	}
}

func TestEncodeIndentAndOrder(t *testing.T) {
	s := New(Options{Indent: 2})

	body, err := s.Encode(sampleBundle())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": \"Banana\",\n  \"a\": \"Apple\",\n  \"html\": \"Hi <0>there</0> & \\\"you\\\"\"\n}\n", string(body))
}

func TestEncodeCompactAndEmpty(t *testing.T) {
	s := New(Options{})

	body, err := s.Encode(resource.Bundle{Keys: []string{"k"}, Values: map[string]string{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, "{\"k\":\"v\"}\n", string(body))

	body, err = New(Options{Indent: 4}).Encode(resource.Bundle{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(body))
}

func TestEncodeLineEndings(t *testing.T) {
	b := resource.Bundle{Keys: []string{"k"}, Values: map[string]string{"k": "line\nbreak"}}
	auto := "\n"
	if runtime.GOOS == "windows" {
		auto = "\r\n"
	}

	tests := []struct {
		ending string
		want   string
	}{
		{"lf", "{\n  \"k\": \"line\\nbreak\"\n}\n"},
		{"CRLF", "{\r\n  \"k\": \"line\\nbreak\"\r\n}\r\n"},
		{"\r\n", "{\r\n  \"k\": \"line\\nbreak\"\r\n}\r\n"},
		{"cr", "{\r  \"k\": \"line\\nbreak\"\r}\r"},
		{"Auto", "{" + auto + "  \"k\": \"line\\nbreak\"" + auto + "}" + auto},
		{"bogus", "{\n  \"k\": \"line\\nbreak\"\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.ending, func(t *testing.T) {
			body, err := New(Options{Indent: 2, LineEnding: LineEnding(tt.ending)}).Encode(b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	bundles := []resource.Bundle{sampleBundle(), {Locale: "fr", Namespace: "common"}}
	for _, ending := range []LineEnding{LineEndingLF, LineEndingCRLF, LineEndingCR} {
		docs, err := New(Options{Indent: 3, LineEnding: ending}).Serialize(bundles)
		require.NoError(t, err)
		require.Len(t, docs, 2)

		var got map[string]string
		require.NoError(t, json.Unmarshal(docs[0].Body, &got))
		assert.Equal(t, sampleBundle().Values, got)
		assert.Equal(t, 3, docs[0].Keys)
	}
}

func TestSerializePaths(t *testing.T) {
	docs, err := New(Options{}).Serialize([]resource.Bundle{{Locale: "en", Namespace: "common"}})
	require.NoError(t, err)
	assert.Equal(t, []entities.Document{{
		Locale:    "en",
		Namespace: "common",
		Path:      "i18n/en/common.json",
		Body:      []byte("{}\n"),
	}}, docs)

	s := New(Options{SavePath: "locales/{{lng}}/{{ns}}/{{ns}}.json"})
	assert.Equal(t, "locales/fr/nav/nav.json", s.FormatResourceSavePath("fr", "nav"))
}

func TestParseLineEnding(t *testing.T) {
	assert.Equal(t, LineEndingCRLF, ParseLineEnding(" CrLf "))
	assert.Equal(t, LineEndingCR, ParseLineEnding("\r"))
	assert.Equal(t, LineEndingAuto, ParseLineEnding("AUTO"))
	assert.Equal(t, LineEndingLF, ParseLineEnding(""))
}
