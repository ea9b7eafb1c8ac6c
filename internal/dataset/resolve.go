package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnresolved is returned when neither the country name nor the region
// matches the canonical table.
var ErrUnresolved = errors.New("country not found")

// ErrInvalidCode is returned for codes that are not two characters of [0-9A-Z].
var ErrInvalidCode = errors.New("invalid country code")

// Resolve maps a provider's (country name, region) pair to a two-character
// code. The name is tried first; if it misses, the region is tried as a
// name, which covers providers that list a territory under its sovereign
// state. Matching is exact and case-sensitive.
func Resolve(name, region string) (string, error) {
	if code, ok := lookup(name, region); ok {
		return code, nil
	}
	if code, ok := lookup(region, ""); ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q / %q", ErrUnresolved, name, region)
}

// lookup binary-searches countryTable for key. When several rows share the
// name, the row whose qualifier equals qualifier wins, then the unqualified
// row, then the first row.
func lookup(key, qualifier string) (string, bool) {
	n := len(countryTable)
	i := sort.Search(n, func(i int) bool { return countryTable[i].Name >= key })
	if i == n || countryTable[i].Name != key {
		return "", false
	}

	first, plain := i, -1
	for ; i < n && countryTable[i].Name == key; i++ {
		switch countryTable[i].Qualifier {
		case qualifier:
			return countryTable[i].Code, true
		case "":
			plain = i
		}
	}
	if plain >= 0 {
		return countryTable[plain].Code, true
	}
	return countryTable[first].Code, true
}

// CodeIndex converts a two-character code to its table slot: each character
// is a base-36 digit ('0'-'9' then 'A'-'Z') and the slot is first*36+second.
func CodeIndex(code string) (int, error) {
	if len(code) != 2 {
		return 0, fmt.Errorf("%w: %q is not 2 characters", ErrInvalidCode, code)
	}
	hi, ok1 := digit36(code[0])
	lo, ok2 := digit36(code[1])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return hi*36 + lo, nil
}

// MustCodeIndex is CodeIndex for codes known to be valid, such as those in
// the canonical table. It panics otherwise.
func MustCodeIndex(code string) int {
	idx, err := CodeIndex(code)
	if err != nil {
		panic(err)
	}
	return idx
}

func digit36(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}
