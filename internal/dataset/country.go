package dataset

import (
	"fmt"
	"math"
	"time"
)

// Entry is one calendar day of data for one country.
//
// Each metric slot carries its own populated marker. Raw-layout input fills
// all three at once; aspect-layout input fills one slot per pass, so between
// passes an Entry may hold only some of its metrics.
type Entry struct {
	Date time.Time

	values [3]uint32
	set    [3]bool
}

// Value returns the metric for aspect a, or ErrUnpopulated if no input has
// supplied it.
func (e *Entry) Value(a Aspect) (uint32, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("invalid aspect %d", a)
	}
	if !e.set[a] {
		return 0, fmt.Errorf("%w: %s on %s", ErrUnpopulated, a, FormatDate(e.Date))
	}
	return e.values[a], nil
}

// Values returns confirmed, recovered and dead. All three must be populated.
func (e *Entry) Values() (confirmed, recovered, dead uint32, err error) {
	var v [3]uint32
	for _, a := range Aspects {
		if v[a], err = e.Value(a); err != nil {
			return 0, 0, 0, err
		}
	}
	return v[Confirmed], v[Recovered], v[Dead], nil
}

// Has reports whether aspect a has been populated.
func (e *Entry) Has(a Aspect) bool {
	return a.Valid() && e.set[a]
}

// Complete reports whether all three metrics are populated.
func (e *Entry) Complete() bool {
	return e.set[Confirmed] && e.set[Recovered] && e.set[Dead]
}

func (e *Entry) put(a Aspect, v uint32) {
	e.values[a] = v
	e.set[a] = true
}

// Country is one nation or territory and its daily series.
type Country struct {
	Code   string
	Name   string
	Region string
	Lat    float64
	Lon    float64
	Start  time.Time

	entries []*Entry
}

func newCountry(code, name, region string, lat, lon float64) *Country {
	return &Country{
		Code:   code,
		Name:   name,
		Region: region,
		Lat:    lat,
		Lon:    lon,
		Start:  SeriesStart(),
	}
}

// Entries returns the series in date order. The slice must not be modified.
func (c *Country) Entries() []*Entry {
	return c.entries
}

// Len returns the number of records in the series.
func (c *Country) Len() int {
	return len(c.entries)
}

// Dates returns the date of every record in order.
func (c *Country) Dates() []time.Time {
	dates := make([]time.Time, len(c.entries))
	for i, e := range c.entries {
		dates[i] = e.Date
	}
	return dates
}

// NextDate returns the date the next appended record will carry.
func (c *Country) NextDate() time.Time {
	if len(c.entries) == 0 {
		return c.Start
	}
	return NextDate(c.entries[len(c.entries)-1].Date)
}

// InsertEntry appends a fully populated record for the next day.
func (c *Country) InsertEntry(confirmed, recovered, dead uint32) *Entry {
	e := c.appendEntry()
	e.put(Confirmed, confirmed)
	e.put(Recovered, recovered)
	e.put(Dead, dead)
	return e
}

// InsertAspect appends a record for the next day with only aspect a set.
func (c *Country) InsertAspect(a Aspect, value uint32) (*Entry, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid aspect %d", a)
	}
	e := c.appendEntry()
	e.put(a, value)
	return e, nil
}

// SetAspect fills aspect a of the existing record at position i. If the
// slot already holds a value (a second input row for the same country in
// the same pass), value is added to it.
func (c *Country) SetAspect(i int, a Aspect, value uint32) error {
	if !a.Valid() {
		return fmt.Errorf("invalid aspect %d", a)
	}
	if i < 0 || i >= len(c.entries) {
		return fmt.Errorf("record %d outside series of %d for %s", i, len(c.entries), c.Code)
	}
	e := c.entries[i]
	if e.set[a] {
		if value > math.MaxUint32-e.values[a] {
			return fmt.Errorf("%w: %s %s on %s: %d + %d",
				ErrOverflow, c.Code, a, FormatDate(e.Date), e.values[a], value)
		}
		value += e.values[a]
	}
	e.put(a, value)
	return nil
}

func (c *Country) appendEntry() *Entry {
	e := &Entry{Date: c.NextDate()}
	c.entries = append(c.entries, e)
	return e
}
