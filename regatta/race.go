package regatta

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Division is a lettered sub-fleet. Ordering follows declaration order.
type Division int

const (
	DivisionA Division = iota
	DivisionB
	DivisionC
	DivisionD
)

// AllDivisions lists every supported division in order.
var AllDivisions = []Division{DivisionA, DivisionB, DivisionC, DivisionD}

func (d Division) String() string {
	if d < DivisionA || d > DivisionD {
		return fmt.Sprintf("Division(%d)", int(d))
	}
	return string(rune('A' + int(d)))
}

func (d Division) Valid() bool {
	return d >= DivisionA && d <= DivisionD
}

// ParseDivision accepts a single letter, case-insensitive.
func ParseDivision(s string) (Division, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'D' {
		return 0, fmt.Errorf("invalid division %q", s)
	}
	return Division(s[0] - 'A'), nil
}

func (d Division) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid division %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Division) UnmarshalText(text []byte) error {
	parsed, err := ParseDivision(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Race is a numbered race within a division.
type Race struct {
	Division Division
	Number   int
}

func (r Race) String() string {
	return strconv.Itoa(r.Number) + r.Division.String()
}

// ParseRace reads the "3A" form.
func ParseRace(s string) (Race, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Race{}, fmt.Errorf("invalid race %q", s)
	}
	div, err := ParseDivision(s[len(s)-1:])
	if err != nil {
		return Race{}, fmt.Errorf("invalid race %q: %w", s, err)
	}
	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || num < 1 {
		return Race{}, fmt.Errorf("invalid race number in %q", s)
	}
	return Race{Division: div, Number: num}, nil
}

func (r Race) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Race) UnmarshalText(text []byte) error {
	parsed, err := ParseRace(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CompareByNumber orders races by number, then division. This is the
// chronological order used for rotations and "last race back".
func CompareByNumber(a, b Race) int {
	if c := cmp.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	return cmp.Compare(a.Division, b.Division)
}

// CompareByDivision orders races by division, then number.
func CompareByDivision(a, b Race) int {
	if c := cmp.Compare(a.Division, b.Division); c != 0 {
		return c
	}
	return cmp.Compare(a.Number, b.Number)
}
