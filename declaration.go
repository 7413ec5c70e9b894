package reshape

import (
	"slices"
	"strings"
)

// Direction records which separator a declaration was written with.
type Direction uint8

const (
	// Forward declarations are written first-to-last: "A>>B".
	Forward Direction = iota

	// Reverse declarations are written last-to-first: "B<<A".
	Reverse
)

const (
	forwardSeparator = ">>"
	reverseSeparator = "<<"
)

// String returns the separator for the direction.
func (d Direction) String() string {
	if d == Reverse {
		return reverseSeparator
	}
	return forwardSeparator
}

// ChainDeclaration is an ordered list of modifier declarations.
//
// Entries are always in canonical order, the order a reader meets them
// walking from the first-written end to the last, regardless of which
// separator the declaration used. Direction is kept for diagnostics only.
type ChainDeclaration struct {
	Entries   []Declaration
	Direction Direction
}

// Len returns the number of declared modifiers.
func (c ChainDeclaration) Len() int {
	return len(c.Entries)
}

// Aliases returns the declared aliases in canonical order.
func (c ChainDeclaration) Aliases() []Alias {
	aliases := make([]Alias, len(c.Entries))
	for i, d := range c.Entries {
		aliases[i] = d.Alias
	}
	return aliases
}

// String renders the declaration in canonical ">>" form.
func (c ChainDeclaration) String() string {
	parts := make([]string, len(c.Entries))
	for i, d := range c.Entries {
		parts[i] = d.String()
	}
	return strings.Join(parts, forwardSeparator)
}

// ParseChain parses a chain declaration.
//
//	decl  ::= token ( '>>' token )* | token ( '<<' token )*
//	token ::= alias [ '(' parameter ')' ]
//
// Whitespace around tokens and inside the parentheses is insignificant.
// Parameters may not contain ">>" or "<<". An empty input yields an empty
// chain and no error.
func ParseChain(input string) (ChainDeclaration, error) {
	if strings.TrimSpace(input) == "" {
		return ChainDeclaration{}, nil
	}

	hasForward := strings.Contains(input, forwardSeparator)
	hasReverse := strings.Contains(input, reverseSeparator)
	if hasForward && hasReverse {
		return ChainDeclaration{}, newDeclarationError(ErrMixedSeparators, input, "")
	}

	direction := Forward
	separator := forwardSeparator
	if hasReverse {
		direction = Reverse
		separator = reverseSeparator
	}

	tokens := strings.Split(input, separator)
	entries := make([]Declaration, 0, len(tokens))
	for _, token := range tokens {
		decl, err := parseToken(input, token)
		if err != nil {
			return ChainDeclaration{}, err
		}
		entries = append(entries, decl)
	}

	// "<<" lists the last modifier first.
	if direction == Reverse {
		slices.Reverse(entries)
	}

	return ChainDeclaration{Entries: entries, Direction: direction}, nil
}

// MustParseChain is like ParseChain but panics on error.
// Intended for static declarations in tests and tables.
func MustParseChain(input string) ChainDeclaration {
	c, err := ParseChain(input)
	if err != nil {
		panic(err)
	}
	return c
}

// parseToken parses one alias [ '(' parameter ')' ] token.
func parseToken(input, token string) (Declaration, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Declaration{}, newDeclarationError(ErrEmptyToken, input, "")
	}

	name := token
	var param string
	if open := strings.IndexByte(token, '('); open >= 0 {
		if !strings.HasSuffix(token, ")") {
			return Declaration{}, newDeclarationError(ErrInvalidToken, input, token)
		}
		name = strings.TrimSpace(token[:open])
		param = strings.TrimSpace(token[open+1 : len(token)-1])
		if strings.ContainsAny(param, "()") {
			return Declaration{}, newDeclarationError(ErrInvalidToken, input, token)
		}
		if param == "" {
			return Declaration{}, newDeclarationError(ErrInvalidParameter, input, token)
		}
	} else if strings.ContainsRune(token, ')') {
		return Declaration{}, newDeclarationError(ErrInvalidToken, input, token)
	}

	if strings.ContainsAny(name, " \t\r\n") {
		// Two tokens with no separator between them.
		return Declaration{}, newDeclarationError(ErrInvalidToken, input, token)
	}
	if !IsValidAlias(name) {
		return Declaration{}, newDeclarationError(ErrInvalidAlias, input, token)
	}

	return Declaration{Alias: Alias(name), Parameter: Parameter(param)}, nil
}
