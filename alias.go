package reshape

import (
	"regexp"
	"strings"
)

// Alias names a modifier in a chain declaration and in the registry.
// Construct with ParseAlias; the zero value is not a valid alias.
type Alias string

// Parameter is the optional argument of a declared modifier, e.g. SOAP_1_1
// in Envelope(SOAP_1_1). The empty Parameter means "no parameter".
type Parameter string

var aliasPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9:\-_.$]*$`)

// ParseAlias trims s and validates it against the alias grammar:
//
//	letter (letter|digit|':'|'-'|'_'|'.'|'$')*
func ParseAlias(s string) (Alias, error) {
	s = strings.TrimSpace(s)
	if !aliasPattern.MatchString(s) {
		return "", newDeclarationError(ErrInvalidAlias, "", s)
	}
	return Alias(s), nil
}

// IsValidAlias returns true if s is a well-formed alias with no surrounding space.
func IsValidAlias(s string) bool {
	return aliasPattern.MatchString(s)
}

func (a Alias) String() string { return string(a) }

func (p Parameter) String() string { return string(p) }

// Declaration is one parsed token of a chain declaration.
type Declaration struct {
	Alias     Alias
	Parameter Parameter
}

// HasParameter returns true if the token carried a parenthesized parameter.
func (d Declaration) HasParameter() bool {
	return d.Parameter != ""
}

// String renders the token as it would be written in a declaration.
func (d Declaration) String() string {
	if d.HasParameter() {
		return string(d.Alias) + "(" + string(d.Parameter) + ")"
	}
	return string(d.Alias)
}
