package dataset

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSeriesStart(t *testing.T) {
	start := SeriesStart()
	if got := FormatDate(start); got != "2020/01/22" {
		t.Errorf("FormatDate(SeriesStart()) = %q, want %q", got, "2020/01/22")
	}
	if start.Hour() != 12 {
		t.Errorf("SeriesStart().Hour() = %d, want 12", start.Hour())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020/03/08")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if !SameDay(d, Date(2020, time.March, 8)) {
		t.Errorf("ParseDate() = %v, want 2020-03-08", d)
	}
	if d.Hour() != 12 {
		t.Errorf("ParseDate().Hour() = %d, want 12", d.Hour())
	}

	for _, bad := range []string{"", "date", "2020-03-08", "3/8/20"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestGetOrCreate(t *testing.T) {
	ds := New()

	us, err := ds.GetOrCreate("US", "United States", "North America", 37.1, -95.7)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	again, err := ds.GetOrCreate("US", "USA", "Elsewhere", 0, 0)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if us != again {
		t.Error("GetOrCreate() returned a different Country for the same code")
	}
	if again.Name != "United States" {
		t.Errorf("Name = %q, want the first registration to win", again.Name)
	}
	if ds.Lookup("US") != us {
		t.Error("Lookup(\"US\") did not return the registered Country")
	}
	if ds.Lookup("FR") != nil {
		t.Error("Lookup(\"FR\") returned a Country that was never registered")
	}

	if _, err := ds.GetOrCreate("usa", "x", "", 0, 0); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("GetOrCreate(\"usa\") error = %v, want ErrInvalidCode", err)
	}
}

func TestCountriesOrderedByCode(t *testing.T) {
	ds := New()
	for _, code := range []string{"ZW", "US", "0A", "FR", "AF"} {
		if _, err := ds.GetOrCreate(code, code, "", 0, 0); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"0A", "AF", "FR", "US", "ZW"}
	got := ds.Countries()
	if len(got) != len(want) {
		t.Fatalf("Countries() returned %d, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Code != want[i] {
			t.Errorf("Countries()[%d] = %s, want %s", i, c.Code, want[i])
		}
	}
	if ds.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ds.Len())
	}
}

func TestInsertEntry_DatesContiguous(t *testing.T) {
	ds := New()
	c, _ := ds.GetOrCreate("QA", "Qatar", "Asia", 25.5, 51.25)

	// crosses the March 2020 DST changes in both hemispheres
	for i := 0; i < 120; i++ {
		c.InsertEntry(uint32(i), 0, 0)
	}

	want := SeriesStart()
	for i, e := range c.Entries() {
		if !SameDay(e.Date, want) {
			t.Fatalf("record %d date = %s, want %s", i, FormatDate(e.Date), FormatDate(want))
		}
		if e.Date.Hour() != 12 {
			t.Fatalf("record %d hour = %d, want 12", i, e.Date.Hour())
		}
		want = want.AddDate(0, 0, 1)
	}
	if ds.Records() != 120 {
		t.Errorf("Records() = %d, want 120", ds.Records())
	}
}

func TestInsertAspect_Populated(t *testing.T) {
	c := newCountry("FR", "France", "", 46, 2)

	e, err := c.InsertAspect(Recovered, 7)
	if err != nil {
		t.Fatalf("InsertAspect() error = %v", err)
	}
	if !SameDay(e.Date, SeriesStart()) {
		t.Errorf("first record date = %s, want series start", FormatDate(e.Date))
	}
	if v, err := e.Value(Recovered); err != nil || v != 7 {
		t.Errorf("Value(Recovered) = %d, %v, want 7, nil", v, err)
	}
	if _, err := e.Value(Confirmed); !errors.Is(err, ErrUnpopulated) {
		t.Errorf("Value(Confirmed) error = %v, want ErrUnpopulated", err)
	}
	if _, _, _, err := e.Values(); !errors.Is(err, ErrUnpopulated) {
		t.Errorf("Values() error = %v, want ErrUnpopulated", err)
	}
	if e.Complete() {
		t.Error("Complete() = true with one metric set")
	}

	if err := c.SetAspect(0, Confirmed, 10); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAspect(0, Dead, 1); err != nil {
		t.Fatal(err)
	}
	conf, rec, dead, err := e.Values()
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if conf != 10 || rec != 7 || dead != 1 {
		t.Errorf("Values() = %d,%d,%d, want 10,7,1", conf, rec, dead)
	}

	if _, err := c.InsertAspect(Aspect(3), 1); err == nil {
		t.Error("InsertAspect(3) expected error")
	}
}

func TestSetAspect_MergesAndBounds(t *testing.T) {
	c := newCountry("AU", "Australia", "", -25, 133)
	c.InsertAspect(Confirmed, 3)

	if err := c.SetAspect(0, Confirmed, 4); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Entries()[0].Value(Confirmed); v != 7 {
		t.Errorf("merged value = %d, want 7", v)
	}

	if err := c.SetAspect(1, Confirmed, 1); err == nil {
		t.Error("SetAspect beyond series expected error")
	}
}

func TestSetAspect_Overflow(t *testing.T) {
	c := newCountry("CN", "China", "Hubei", 30.97, 112.27)
	c.InsertAspect(Confirmed, math.MaxUint32-1)

	if err := c.SetAspect(0, Confirmed, 1); err != nil {
		t.Fatalf("SetAspect() at the limit error = %v", err)
	}
	if err := c.SetAspect(0, Confirmed, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("SetAspect() error = %v, want ErrOverflow", err)
	}
	if v, _ := c.Entries()[0].Value(Confirmed); v != math.MaxUint32 {
		t.Errorf("value after rejected merge = %d, want %d", v, uint32(math.MaxUint32))
	}
}

func TestParseAspect(t *testing.T) {
	for _, a := range Aspects {
		got, err := ParseAspect(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAspect(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAspect("deaths"); err == nil {
		t.Error("ParseAspect(\"deaths\") expected error")
	}
}
