package core

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/covidconv/internal/dataset"
	"github.com/JonMunkholm/covidconv/internal/logging"
)

// AspectInputCount is the number of inputs an aspect-shaped format reads.
const AspectInputCount = len(dataset.Aspects)

// RawOutputName is the file a raw-shaped format writes.
const RawOutputName = "output.csv"

// AspectOutputName returns the file an aspect-shaped format writes for a:
// output_confirmed.csv, output_recovered.csv or output_dead.csv.
func AspectOutputName(a dataset.Aspect) string {
	return "output_" + a.String() + ".csv"
}

// OutputNames returns the files f writes, in write order.
func OutputNames(f Format) []string {
	if f.Shape() == ShapeRaw {
		return []string{RawOutputName}
	}
	names := make([]string, 0, AspectInputCount)
	for _, a := range dataset.Aspects {
		names = append(names, AspectOutputName(a))
	}
	return names
}

// Lookup returns the named format or an ErrUnknownFormat error.
func Lookup(name string) (Format, error) {
	f, ok := Get(name)
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// CheckInputCount validates n inputs against f's shape: an aspect format
// needs exactly one input per aspect, a raw format at least one.
func CheckInputCount(f Format, n int) error {
	if f.Shape() == ShapeAspect {
		if n != AspectInputCount {
			return fmt.Errorf("%w: %s inputs require exactly %d files, got %d",
				ErrInputCount, f.Info.Name, AspectInputCount, n)
		}
		return nil
	}
	if n < 1 {
		return fmt.Errorf("%w: %s inputs require at least 1 file", ErrInputCount, f.Info.Name)
	}
	return nil
}

// Read feeds every input through f's reader into ds, in order.
//
// For aspect formats each input must carry a distinct aspect tag. The tag,
// not the input's position, decides which metric the values land in.
func Read(ctx context.Context, f Format, ds *dataset.Dataset, inputs []Input) error {
	if err := CheckInputCount(f, len(inputs)); err != nil {
		return err
	}
	if f.Shape() == ShapeAspect {
		var seen [AspectInputCount]bool
		for _, in := range inputs {
			if !in.Aspect.Valid() || seen[in.Aspect] {
				return fmt.Errorf("%w: inputs must be tagged confirmed, recovered and dead once each",
					ErrInputCount)
			}
			seen[in.Aspect] = true
		}
	}

	logger := logging.FromContext(ctx)

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("conversion cancelled: %w", err)
		}

		r := WrapInput(in.Reader)

		var err error
		if f.Shape() == ShapeAspect {
			err = f.ReadAspect(r, ds, in.Aspect)
		} else {
			err = f.ReadRaw(r, ds)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", in.Name, err)
		}

		attrs := []any{"input", in.Name, "format", f.Info.Name, "bytes", r.BytesRead}
		if f.Shape() == ShapeAspect {
			attrs = append(attrs, "aspect", in.Aspect.String())
		}
		logger.Info("input read", attrs...)
	}

	return nil
}

// CreateFunc opens the named output for writing.
type CreateFunc func(name string) (io.WriteCloser, error)

// Write serializes ds with f's writer into the outputs returned by create
// and returns their names in write order.
//
// A failure part way through leaves earlier outputs, and possibly a
// truncated current one, in place.
func Write(ctx context.Context, f Format, ds *dataset.Dataset, create CreateFunc) ([]string, error) {
	logger := logging.FromContext(ctx)
	names := OutputNames(f)

	for i, name := range names {
		w, err := create(name)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrIO, name, err)
		}

		if f.Shape() == ShapeAspect {
			err = f.WriteAspect(w, ds, dataset.Aspects[i])
		} else {
			err = f.WriteRaw(w, ds)
		}
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: close %s: %v", ErrIO, name, cerr)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		logger.Info("output written", "output", name, "format", f.Info.Name)
	}

	return names, nil
}
