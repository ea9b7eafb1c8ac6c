// Package dataset holds the in-memory time series built during a conversion.
//
// A Dataset maps two-character country codes to Countries. Each Country owns
// a gap-free, date-ordered series of Entries starting at the series start
// date. Order and contiguity are guaranteed purely by construction: records
// are only ever appended, and each new record's date is computed from its
// predecessor rather than taken from input.
package dataset

import (
	"errors"
	"fmt"
)

// Capacity is the number of addressable country slots: two base-36 digits.
const Capacity = 36 * 36

// ErrUnpopulated is returned when a metric slot is read before any input
// supplied a value for it.
var ErrUnpopulated = errors.New("metric not populated")

// ErrOverflow is returned when merging values would exceed the 32-bit
// metric range.
var ErrOverflow = errors.New("metric value overflows")

// Aspect identifies one of the three tracked metrics.
type Aspect uint8

const (
	Confirmed Aspect = iota
	Recovered
	Dead
)

// Aspects lists every aspect in file order: confirmed, recovered, dead.
var Aspects = [...]Aspect{Confirmed, Recovered, Dead}

func (a Aspect) String() string {
	switch a {
	case Confirmed:
		return "confirmed"
	case Recovered:
		return "recovered"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("aspect(%d)", uint8(a))
	}
}

// Valid reports whether a names one of the three metrics.
func (a Aspect) Valid() bool {
	return a <= Dead
}

// ParseAspect converts "confirmed", "recovered" or "dead" to an Aspect.
func ParseAspect(s string) (Aspect, error) {
	for _, a := range Aspects {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown aspect %q", s)
}

// Dataset is the set of countries accumulated by one conversion run.
type Dataset struct {
	countries map[int]*Country
}

// New returns an empty Dataset.
func New() *Dataset {
	return &Dataset{countries: make(map[int]*Country)}
}

// Lookup returns the Country registered under code, or nil.
func (ds *Dataset) Lookup(code string) *Country {
	idx, err := CodeIndex(code)
	if err != nil {
		return nil
	}
	return ds.countries[idx]
}

// GetOrCreate returns the Country for code, registering a new one with the
// given descriptive fields if none exists yet. Descriptive fields of an
// existing Country are left untouched.
func (ds *Dataset) GetOrCreate(code, name, region string, lat, lon float64) (*Country, error) {
	idx, err := CodeIndex(code)
	if err != nil {
		return nil, err
	}
	if c, ok := ds.countries[idx]; ok {
		return c, nil
	}
	c := newCountry(code, name, region, lat, lon)
	ds.countries[idx] = c
	return c, nil
}

// Countries returns every Country in ascending code-index order. Output
// row order depends on this.
func (ds *Dataset) Countries() []*Country {
	result := make([]*Country, 0, len(ds.countries))
	for i := 0; i < Capacity && len(result) < len(ds.countries); i++ {
		if c, ok := ds.countries[i]; ok {
			result = append(result, c)
		}
	}
	return result
}

// Len returns the number of countries.
func (ds *Dataset) Len() int {
	return len(ds.countries)
}

// Records returns the total number of daily records across all countries.
func (ds *Dataset) Records() int {
	n := 0
	for _, c := range ds.countries {
		n += c.Len()
	}
	return n
}
