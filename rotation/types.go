package rotation

import (
	"fmt"
	"strings"
)

// Type governs how the sail list is permuted after each set.
type Type int

const (
	TypeStatic Type = iota
	TypeStandard
	TypeSwap
)

var typeNames = map[Type]string{
	TypeStatic:   "static",
	TypeStandard: "standard",
	TypeSwap:     "swap",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) valid() bool {
	_, ok := typeNames[t]
	return ok
}

func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, &ConfigError{Msg: fmt.Sprintf("unknown rotation type %q", s)}
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown rotation type %d", int(t))}
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Style governs how divisions are interleaved.
type Style int

const (
	// StyleNone rotates all divisions together, one set of every division per step.
	StyleNone Style = iota
	// StyleNavy steps through the shared timeline one set at a time.
	StyleNavy
	// StyleFranny builds each division on its own with offset starting sails.
	StyleFranny
)

var styleNames = map[Style][]string{
	StyleNone:   {"none", "individual"},
	StyleNavy:   {"navy", "collated"},
	StyleFranny: {"franny", "offset"},
}

func (s Style) String() string {
	if names, ok := styleNames[s]; ok {
		return names[0]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

func (s Style) valid() bool {
	_, ok := styleNames[s]
	return ok
}

func ParseStyle(str string) (Style, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	for s, names := range styleNames {
		for _, name := range names {
			if name == str {
				return s, nil
			}
		}
	}
	return 0, &ConfigError{Msg: fmt.Sprintf("unknown rotation style %q", str)}
}

func (s Style) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown rotation style %d", int(s))}
	}
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ConfigError reports rotation parameters that cannot produce a rotation.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "invalid rotation configuration: " + e.Msg
}
