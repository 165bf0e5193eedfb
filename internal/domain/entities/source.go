package entities

import (
	"path/filepath"
	"strings"
)

// SourceUnit is one file handed to the scanner.
type SourceUnit struct {
	Path string
	Text []byte
}

// Ext returns the lower-cased file extension including the leading dot.
func (u SourceUnit) Ext() string {
	return strings.ToLower(filepath.Ext(u.Path))
}

// Pass names the extraction pass that produced an observation.
type Pass string

const (
	PassAttr  Pass = "attr"
	PassFunc  Pass = "func"
	PassHook  Pass = "hook"
	PassHOC   Pass = "hoc"
	PassTrans Pass = "trans"
)

// Diagnostic is a recoverable problem found in one source unit.
type Diagnostic struct {
	Code   string
	Path   string
	Line   int
	Detail string
}

// ScanResult holds everything one unit contributed, in source order.
type ScanResult struct {
	Path         string
	Observations []Observation
	Diagnostics  []Diagnostic
}

// Report summarizes one run.
type Report struct {
	Units       int
	Keys        int
	Diagnostics []Diagnostic
	Documents   []Document
}
