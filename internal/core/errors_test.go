package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/covidconv/internal/csvline"
	"github.com/JonMunkholm/covidconv/internal/dataset"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"unknown format", fmt.Errorf("input format: %w: %q", ErrUnknownFormat, "jhu"), "USE001"},
		{"input count", fmt.Errorf("%w: got 2", ErrInputCount), "USE002"},
		{"open input", fmt.Errorf("%w: a.csv", ErrOpenInput), "USE003"},
		{"short read", fmt.Errorf("row 3: %w", ErrShortRead), "PAR002"},
		{"not numeric", fmt.Errorf("line 2: %w", csvline.ErrNotNumeric), "PAR002"},
		{"merge overflow", fmt.Errorf("row 4: %w", dataset.ErrOverflow), "PAR002"},
		{"bad code", fmt.Errorf("%w: line 2: %w", ErrParse, dataset.ErrInvalidCode), "PAR001"},
		{"parse", fmt.Errorf("line 4: %w", ErrParse), "PAR001"},
		{"unresolved", fmt.Errorf("row 2: %w", dataset.ErrUnresolved), "RES001"},
		{"out of range", fmt.Errorf("line 1: %w", csvline.ErrOutOfRange), "BND001"},
		{"unpopulated", fmt.Errorf("US: %w", dataset.ErrUnpopulated), "SER001"},
		{"io", fmt.Errorf("output.csv: %w", ErrIO), "IO001"},
		{"duplicate key", errors.New("export: ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "DB004"},
		{"deadline", fmt.Errorf("export: %w", context.DeadlineExceeded), "DB006"},
		{"unknown", errors.New("something strange"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError() message is empty")
			}
		})
	}
}

func TestErrorClasses(t *testing.T) {
	usage := fmt.Errorf("%w: x", ErrUnknownFormat)
	data := fmt.Errorf("row 2: %w", dataset.ErrUnresolved)
	io := fmt.Errorf("%w: disk full", ErrIO)

	if !IsUsageError(usage) || IsDataError(usage) {
		t.Errorf("%v: want usage error only", usage)
	}
	if IsUsageError(data) || !IsDataError(data) {
		t.Errorf("%v: want data error only", data)
	}
	if IsUsageError(io) || IsDataError(io) {
		t.Errorf("%v: want neither usage nor data error", io)
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	err := fmt.Errorf("input format: %w: %q", ErrUnknownFormat, "jhu")
	want := `input format: unknown format: "jhu" [USE001]`
	if got := FormatUserError(err); got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}
