package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/JonMunkholm/covidconv/internal/logging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Exporter persists a converted dataset somewhere besides the output files.
// Satisfied by *store.Exporter.
type Exporter interface {
	Save(ctx context.Context, runID uuid.UUID, ds *dataset.Dataset) (int64, error)
}

// Converter runs conversions. Run works on files; Convert on streams.
type Converter struct {
	OutputDir string   // Directory Run writes outputs into; "" means the working directory
	Exporter  Exporter // Optional; nil disables export
}

// Run converts the files named in req.
//
// Both format names are resolved and the input count checked before any
// file is touched. All input files are then opened up front, and every one
// that fails to open is reported together. Aspect inputs are tagged by
// position: confirmed, recovered, dead.
func (c *Converter) Run(ctx context.Context, req Request) (*Result, error) {
	in, out, err := CheckRequest(req)
	if err != nil {
		return nil, err
	}

	inputs, closeAll, err := openInputs(in, req.Inputs)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	result, err := c.Convert(ctx, in, out, inputs, func(name string) (io.WriteCloser, error) {
		if c.OutputDir != "" {
			if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
				return nil, err
			}
		}
		return os.Create(filepath.Join(c.OutputDir, name))
	})
	if err != nil {
		return nil, err
	}

	for i, name := range result.Outputs {
		result.Outputs[i] = filepath.Join(c.OutputDir, name)
	}
	return result, nil
}

// Convert reads inputs with in, writes every output of out through create,
// and exports the Dataset if an Exporter is set. Each call gets a fresh run
// ID that tags its log lines and exported rows.
func (c *Converter) Convert(ctx context.Context, in, out Format, inputs []Input, create CreateFunc) (*Result, error) {
	start := time.Now()

	runID := uuid.New()
	ctx = logging.WithRunID(ctx, runID.String())
	logger := logging.FromContext(ctx)
	logger.Info("conversion started",
		"input_format", in.Info.Name,
		"output_format", out.Info.Name,
		"inputs", len(inputs),
	)

	ds := dataset.New()
	if err := Read(ctx, in, ds, inputs); err != nil {
		return nil, err
	}

	names, err := Write(ctx, out, ds, create)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     runID,
		Outputs:   names,
		Countries: ds.Len(),
		Records:   ds.Records(),
	}

	if c.Exporter != nil {
		n, err := c.Exporter.Save(ctx, runID, ds)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		result.Exported = n
	}

	result.Duration = time.Since(start)
	logger.Info("conversion complete",
		"countries", result.Countries,
		"records", result.Records,
		"outputs", len(result.Outputs),
		"exported", result.Exported,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// CheckRequest resolves both format names and checks the input count
// without touching any file or connection.
func CheckRequest(req Request) (in, out Format, err error) {
	in, err = Lookup(req.InputFormat)
	if err != nil {
		return Format{}, Format{}, fmt.Errorf("input format: %w", err)
	}
	out, err = Lookup(req.OutputFormat)
	if err != nil {
		return Format{}, Format{}, fmt.Errorf("output format: %w", err)
	}
	if err := CheckInputCount(in, len(req.Inputs)); err != nil {
		return Format{}, Format{}, err
	}
	return in, out, nil
}

// openInputs opens every path, tagging aspect inputs by position. On
// failure all successfully opened files are closed and the returned error
// lists every path that could not be opened.
func openInputs(f Format, paths []string) ([]Input, func(), error) {
	var (
		files  []*os.File
		inputs []Input
		errs   *multierror.Error
	)

	closeAll := func() {
		for _, fh := range files {
			fh.Close()
		}
	}

	for i, path := range paths {
		fh, err := os.Open(path)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s: %v", ErrOpenInput, path, err))
			continue
		}
		files = append(files, fh)

		input := Input{Name: path, Reader: fh}
		if f.Shape() == ShapeAspect {
			input.Aspect = dataset.Aspects[i]
		}
		inputs = append(inputs, input)
	}

	if err := errs.ErrorOrNil(); err != nil {
		closeAll()
		return nil, nil, err
	}
	return inputs, closeAll, nil
}
