package formats

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/covidconv/internal/core"
	"github.com/JonMunkholm/covidconv/internal/csvline"
	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/qmuntal/stateless"
)

// ulklc rows look like:
//
//	2020/01/22,QA,Qatar,Asia,25.5,51.25,0,0,0
//
// date, code, name, region, lat, lon, confirmed, recovered, dead.
const ulklcFields = 9

func init() {
	core.Register(core.Format{
		Info: core.FormatInfo{
			Name:   "ulklc",
			Label:  "ulklc covid19-timeseries",
			Source: "https://github.com/ulklc/covid19-timeseries",
		},
		ReadRaw:  readULKLC,
		WriteRaw: writeULKLC,
	})
}

// Header states of one raw input stream.
const (
	stateExpectHeader = "expect_header"
	stateRows         = "rows"
)

const (
	triggerHeader = "header"
	triggerRow    = "row"
)

// newHeaderMachine allows a single header, and only as the first line.
func newHeaderMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(stateExpectHeader)
	sm.Configure(stateExpectHeader).
		Permit(triggerHeader, stateRows).
		Permit(triggerRow, stateRows)
	sm.Configure(stateRows).
		PermitReentry(triggerRow)
	return sm
}

// isHeader reports whether a line is a header: its first field does not
// start with a digit.
func isHeader(line csvline.Line) bool {
	first := line[0]
	return first == "" || first[0] < '0' || first[0] > '9'
}

func readULKLC(r io.Reader, ds *dataset.Dataset) error {
	br := bufio.NewReader(r)
	sm := newHeaderMachine()

	var c *dataset.Country

	for lineNo := 1; ; lineNo++ {
		line, err := csvline.Read(br)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", core.ErrIO, lineNo, err)
		}
		if line.Len() == 0 {
			return nil
		}
		if line.Len() != ulklcFields {
			return fmt.Errorf("%w: line %d: expected %d fields, got %d: %s",
				core.ErrParse, lineNo, ulklcFields, line.Len(), line)
		}

		if isHeader(line) {
			if err := sm.Fire(triggerHeader); err != nil {
				return fmt.Errorf("%w: line %d: unexpected header: %s", core.ErrParse, lineNo, line)
			}
			continue
		}
		if err := sm.Fire(triggerRow); err != nil {
			return fmt.Errorf("%w: line %d: %v", core.ErrParse, lineNo, err)
		}

		row, err := parseULKLCRow(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		if c == nil || c.Code != row.code {
			c, err = ds.GetOrCreate(row.code, row.name, row.region, row.lat, row.lon)
			if err != nil {
				return fmt.Errorf("%w: line %d: %w: %s", core.ErrParse, lineNo, err, line)
			}
		}

		// The stated date is informational; the series position decides.
		if row.date.IsZero() || !dataset.SameDay(row.date, c.NextDate()) {
			slog.Warn("row date disagrees with series position",
				"line", lineNo,
				"code", row.code,
				"stated", line[0],
				"stored", dataset.FormatDate(c.NextDate()),
			)
		}

		c.InsertEntry(row.confirmed, row.recovered, row.dead)
	}
}

type ulklcRow struct {
	date                       time.Time
	code, name, region         string
	lat, lon                   float64
	confirmed, recovered, dead uint32
}

func parseULKLCRow(line csvline.Line) (ulklcRow, error) {
	var (
		row ulklcRow
		err error
	)

	// A malformed date is left zero and reported as a mismatch.
	row.date, _ = dataset.ParseDate(line[0])

	row.code = line[1]
	if len(row.code) != 2 {
		return row, fmt.Errorf("%w: country code %q is not 2 letters: %s", core.ErrParse, row.code, line)
	}
	row.name = line[2]
	row.region = line[3]

	if row.lat, err = line.Float(4); err != nil {
		return row, err
	}
	if row.lon, err = line.Float(5); err != nil {
		return row, err
	}
	if row.confirmed, err = line.Uint(6); err != nil {
		return row, err
	}
	if row.recovered, err = line.Uint(7); err != nil {
		return row, err
	}
	if row.dead, err = line.Uint(8); err != nil {
		return row, err
	}

	return row, nil
}

func writeULKLC(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)

	for _, c := range ds.Countries() {
		prefix := fmt.Sprintf("%s,%s,%s,%f,%f", c.Code, c.Name, c.Region, c.Lat, c.Lon)
		for _, e := range c.Entries() {
			confirmed, recovered, dead, err := e.Values()
			if err != nil {
				return fmt.Errorf("%s: %w", c.Code, err)
			}
			if _, err := fmt.Fprintf(bw, "%s,%s,%d,%d,%d\n",
				dataset.FormatDate(e.Date), prefix, confirmed, recovered, dead); err != nil {
				return fmt.Errorf("%w: %v", core.ErrIO, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	return nil
}
