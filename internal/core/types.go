package core

import (
	"io"
	"time"

	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/google/uuid"
)

// Shape is the file layout a format reads and writes.
type Shape string

const (
	// ShapeRaw is one row per country per day, in a single file.
	ShapeRaw Shape = "raw"
	// ShapeAspect is one row per country with a column per date, split into
	// one file per aspect.
	ShapeAspect Shape = "aspect"
)

// ReadRawFunc parses one raw-layout stream into ds.
type ReadRawFunc func(r io.Reader, ds *dataset.Dataset) error

// WriteRawFunc serializes ds as a single raw-layout stream.
type WriteRawFunc func(w io.Writer, ds *dataset.Dataset) error

// ReadAspectFunc parses the stream holding aspect a into ds.
type ReadAspectFunc func(r io.Reader, ds *dataset.Dataset, a dataset.Aspect) error

// WriteAspectFunc serializes aspect a of ds.
type WriteAspectFunc func(w io.Writer, ds *dataset.Dataset, a dataset.Aspect) error

// FormatInfo describes a provider layout.
type FormatInfo struct {
	Name   string // Registry key used on the command line: "ulklc"
	Label  string // Display name: "ulklc covid19-timeseries"
	Source string // Upstream repository of the data
}

// Format is a registered provider layout. A raw format sets ReadRaw and
// WriteRaw; an aspect format sets ReadAspect and WriteAspect.
type Format struct {
	Info        FormatInfo
	ReadRaw     ReadRawFunc
	WriteRaw    WriteRawFunc
	ReadAspect  ReadAspectFunc
	WriteAspect WriteAspectFunc
}

// Shape returns the layout the format uses.
func (f Format) Shape() Shape {
	if f.ReadAspect != nil || f.WriteAspect != nil {
		return ShapeAspect
	}
	return ShapeRaw
}

// Input is one named stream fed to a format reader. Aspect is only
// consulted for aspect-shaped formats and tells the reader which metric the
// stream holds.
type Input struct {
	Name   string
	Aspect dataset.Aspect
	Reader io.Reader
}

// Request describes one conversion.
type Request struct {
	InputFormat  string
	OutputFormat string
	Inputs       []string // File paths; aspect inputs ordered confirmed, recovered, dead
}

// Result summarizes a completed conversion.
type Result struct {
	RunID     uuid.UUID
	Outputs   []string
	Countries int
	Records   int
	Exported  int64 // Rows copied to PostgreSQL, 0 when export is disabled
	Duration  time.Duration
}
