package domain

import "errors"

// Domain errors.
var (
	ErrSourceRead     = errors.New("unable to read source unit")
	ErrSourceParse    = errors.New("unable to parse source unit")
	ErrBundleWrite    = errors.New("unable to write resource bundle")
	ErrStoreFrozen    = errors.New("resource store is frozen")
	ErrUnknownLocale  = errors.New("unknown locale")
	ErrEmptyKey       = errors.New("translation key is empty")
	ErrInvalidLiteral = errors.New("expression is not a literal")
)

// DiagnosticCode identifies a recoverable condition reported while scanning.
type DiagnosticCode string

const (
	// DiagMissingKey: a Trans occurrence has neither an i18nKey nor default text.
	DiagMissingKey DiagnosticCode = "missing_key"
	// DiagMultipleHOC: more than one higher-order-component call with a namespace in one unit.
	DiagMultipleHOC DiagnosticCode = "multiple_hoc"
	// DiagDynamicKey: a candidate call whose key argument is not a literal.
	DiagDynamicKey DiagnosticCode = "dynamic_key"
	// DiagEmptyKey: a key that is empty once its namespace prefix is split off.
	DiagEmptyKey DiagnosticCode = "empty_key"
)

// Code returns the message id used to localize a diagnostic.
func (c DiagnosticCode) Code() string {
	return "diag." + string(c)
}
