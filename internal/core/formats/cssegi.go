package formats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/covidconv/internal/core"
	"github.com/JonMunkholm/covidconv/internal/csvline"
	"github.com/JonMunkholm/covidconv/internal/dataset"
)

// cssegi files hold one aspect each:
//
//	Province/State,Country/Region,Lat,Long,2020/01/22,2020/01/23,...
//	North America,United States,37.100000,-95.700000,1,2,...
var cssegiHeader = []string{"Province/State", "Country/Region", "Lat", "Long"}

// Leading descriptive columns before the per-date values.
const cssegiPrefix = 4

func init() {
	core.Register(core.Format{
		Info: core.FormatInfo{
			Name:   "cssegi",
			Label:  "CSSE COVID-19 time series",
			Source: "https://github.com/CSSEGISandData/COVID-19",
		},
		ReadAspect:  readCSSEGI,
		WriteAspect: writeCSSEGI,
	})
}

// readCSSEGI reads the stream holding aspect a.
//
// A country seen for the first time gets one new record per value. A
// country that already has records takes exactly one value per record, in
// order; when the slot is already filled (a second province row in the same
// file) the values are summed.
func readCSSEGI(r io.Reader, ds *dataset.Dataset, a dataset.Aspect) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	for rowNo := 1; ; rowNo++ {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return fmt.Errorf("%w: %v", core.ErrParse, err)
			}
			return fmt.Errorf("%w: %v", core.ErrIO, err)
		}
		if rowNo == 1 && len(record) > 0 && record[0] == cssegiHeader[0] {
			continue
		}

		if err := readCSSEGIRow(csvline.Line(record), ds, a); err != nil {
			return fmt.Errorf("row %d: %w", rowNo, err)
		}
	}
}

func readCSSEGIRow(line csvline.Line, ds *dataset.Dataset, a dataset.Aspect) error {
	if line.Len() < cssegiPrefix {
		return fmt.Errorf("%w: expected at least %d fields, got %d: %s",
			core.ErrParse, cssegiPrefix, line.Len(), line)
	}

	region, name := line[0], line[1]
	lat, err := line.Float(2)
	if err != nil {
		return err
	}
	lon, err := line.Float(3)
	if err != nil {
		return err
	}

	code, err := dataset.Resolve(name, region)
	if err != nil {
		return err
	}
	c, err := ds.GetOrCreate(code, name, region, lat, lon)
	if err != nil {
		return err
	}

	values := line.Len() - cssegiPrefix

	if c.Len() == 0 {
		for i := 0; i < values; i++ {
			v, err := line.Uint(cssegiPrefix + i)
			if err != nil {
				return err
			}
			if _, err := c.InsertAspect(a, v); err != nil {
				return err
			}
		}
		return nil
	}

	if values < c.Len() {
		return fmt.Errorf("%w: %s (%s) on %s: %d values for %d dates",
			core.ErrShortRead, c.Code, a, dataset.FormatDate(c.Entries()[values].Date), values, c.Len())
	}
	if values > c.Len() {
		return fmt.Errorf("%w: %s (%s): %d values for %d dates",
			core.ErrParse, c.Code, a, values, c.Len())
	}

	for i := 0; i < values; i++ {
		v, err := line.Uint(cssegiPrefix + i)
		if err != nil {
			return err
		}
		if err := c.SetAspect(i, a, v); err != nil {
			return err
		}
	}
	return nil
}

// writeCSSEGI writes aspect a. The date columns come from the first
// country, so every country must cover the same number of days; a ragged
// dataset fails before anything is written. An empty dataset produces an
// empty file.
func writeCSSEGI(w io.Writer, ds *dataset.Dataset, a dataset.Aspect) error {
	countries := ds.Countries()
	if len(countries) == 0 {
		return nil
	}
	days := countries[0].Len()
	for _, c := range countries[1:] {
		if c.Len() != days {
			return fmt.Errorf("%w: %s has %d days, %s has %d; the aspect layout needs one date range",
				core.ErrParse, c.Code, c.Len(), countries[0].Code, days)
		}
	}

	cw := csv.NewWriter(w)

	header := append([]string(nil), cssegiHeader...)
	for _, d := range countries[0].Dates() {
		header = append(header, dataset.FormatDate(d))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}

	for _, c := range countries {
		row := make([]string, 0, cssegiPrefix+c.Len())
		row = append(row,
			c.Region,
			c.Name,
			strconv.FormatFloat(c.Lat, 'f', 6, 64),
			strconv.FormatFloat(c.Lon, 'f', 6, 64),
		)
		for _, e := range c.Entries() {
			v, err := e.Value(a)
			if err != nil {
				return fmt.Errorf("%s: %w", c.Code, err)
			}
			row = append(row, strconv.FormatUint(uint64(v), 10))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %v", core.ErrIO, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	return nil
}
