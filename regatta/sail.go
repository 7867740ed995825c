package regatta

import (
	"cmp"
	"strconv"
	"strings"
)

// Sail identifies the boat a team sails in a race. Usually numeric.
type Sail string

func (s Sail) number() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	return n, err == nil
}

// CompareSails compares numerically when both sails are integers and
// lexically otherwise.
func CompareSails(a, b Sail) int {
	an, aok := a.number()
	bn, bok := b.number()
	if aok && bok {
		return cmp.Compare(an, bn)
	}
	return strings.Compare(string(a), string(b))
}

// Add returns the sail incremented by n. Non-numeric sails are returned as is.
func (s Sail) Add(n int) Sail {
	num, ok := s.number()
	if !ok {
		return s
	}
	return Sail(strconv.Itoa(num + n))
}
