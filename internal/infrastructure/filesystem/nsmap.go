package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// NamespaceMap renders the ES module exposing one member per namespace,
// the table that `I18nNamespace.member` expressions resolve against.
func NamespaceMap(table string, namespaces []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "const %s = {\n", table)
	for _, ns := range namespaces {
		val, _ := json.Marshal(ns)
		key := ns
		if !identifier.MatchString(ns) {
			key = string(val)
		}
		fmt.Fprintf(&b, "  %s: %s,\n", key, val)
	}
	fmt.Fprintf(&b, "}\nexport default %s;\n", table)
	return []byte(b.String())
}

// WriteNamespaceMap writes NamespaceMap to path, creating parent directories.
func WriteNamespaceMap(path, table string, namespaces []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("namespace map: %w", err)
	}
	if err := os.WriteFile(path, NamespaceMap(table, namespaces), 0o644); err != nil {
		return fmt.Errorf("namespace map: %w", err)
	}
	return nil
}
