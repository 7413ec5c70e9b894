package reshape

import "strings"

// Capability is a role a modifier can play in a chain.
type Capability uint8

const (
	// ReadsInput modifiers wrap a source in pull mode (io.Reader).
	ReadsInput Capability = 1 << iota

	// WritesOutput modifiers wrap a sink in push mode (io.Writer).
	WritesOutput
)

// Capabilities is a set of roles.
type Capabilities uint8

// Has returns true if every role in c is present.
func (s Capabilities) Has(c Capability) bool {
	return uint8(s)&uint8(c) == uint8(c)
}

// With returns the set extended with c.
func (s Capabilities) With(c Capability) Capabilities {
	return s | Capabilities(c)
}

// Empty returns true if the set holds no role.
func (s Capabilities) Empty() bool {
	return s == 0
}

// String renders the set, e.g. "read|write".
func (s Capabilities) String() string {
	var parts []string
	if s.Has(ReadsInput) {
		parts = append(parts, "read")
	}
	if s.Has(WritesOutput) {
		parts = append(parts, "write")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// capabilitiesOf derives the roles of M from its method set.
// M is a type parameter so the check is a static interface assertion on
// the zero value, not a lookup by name.
func capabilitiesOf[M Modifier]() Capabilities {
	var zero M
	var caps Capabilities
	if _, ok := any(zero).(InputModifier); ok {
		caps = caps.With(ReadsInput)
	}
	if _, ok := any(zero).(OutputModifier); ok {
		caps = caps.With(WritesOutput)
	}
	return caps
}
