// Package core converts COVID-19 time-series files between provider layouts.
//
// It holds the conversion logic independent of any transport: the CLI and
// the HTTP service both drive it, as do the tests.
//
// # Architecture
//
//   - Formats: provider layouts registered at init time via [Register]. Each
//     is either raw-shaped (one file, one row per country per day) or
//     aspect-shaped (three files, one per metric, one column per date).
//   - Read and Write: drive a format's reader over every input and its
//     writer into every output, against one shared [dataset.Dataset].
//   - Converter: the file-to-file entry point used by the CLI.
//   - Errors: every failure wraps a sentinel so [MapError] can give it a
//     stable code.
//
// # Format Registry
//
// Formats register themselves from package formats:
//
//	core.Register(core.Format{
//	    Info:     core.FormatInfo{Name: "ulklc", Label: "ulklc covid19-timeseries"},
//	    ReadRaw:  readULKLC,
//	    WriteRaw: writeULKLC,
//	})
//
// # Conversion Flow
//
//  1. Both format names are resolved; an unknown name fails before any I/O
//  2. The input count is checked against the input format's shape
//  3. Inputs are wrapped with BOM skipping and read in order into the Dataset
//  4. The output format writes output.csv, or one output_<aspect>.csv per metric
//  5. An optional [Exporter] copies the Dataset into PostgreSQL
//
// The whole Dataset is held in memory; nothing is written until every input
// has been read.
package core
