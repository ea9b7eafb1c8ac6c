package core

import (
	"io"
	"testing"

	"github.com/JonMunkholm/covidconv/internal/dataset"
)

func readRawNop(io.Reader, *dataset.Dataset) error  { return nil }
func writeRawNop(io.Writer, *dataset.Dataset) error { return nil }

func readAspectNop(io.Reader, *dataset.Dataset, dataset.Aspect) error  { return nil }
func writeAspectNop(io.Writer, *dataset.Dataset, dataset.Aspect) error { return nil }

func TestRegister(t *testing.T) {
	Register(Format{
		Info:     FormatInfo{Name: "registry-test-raw"},
		ReadRaw:  readRawNop,
		WriteRaw: writeRawNop,
	})

	f, ok := Get("registry-test-raw")
	if !ok {
		t.Fatal("registered format not found")
	}
	if f.Shape() != ShapeRaw {
		t.Errorf("Shape() = %q, want %q", f.Shape(), ShapeRaw)
	}

	if _, ok := Get("Registry-Test-Raw"); ok {
		t.Error("Get() should be case-sensitive")
	}
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	f := Format{
		Info:        FormatInfo{Name: "registry-test-dup"},
		ReadAspect:  readAspectNop,
		WriteAspect: writeAspectNop,
	}
	Register(f)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(f)
}

func TestRegister_PanicsOnIncompleteFormat(t *testing.T) {
	tests := []struct {
		name string
		f    Format
	}{
		{"no functions", Format{Info: FormatInfo{Name: "registry-test-empty"}}},
		{"reader only", Format{Info: FormatInfo{Name: "registry-test-reader"}, ReadRaw: readRawNop}},
		{"mixed shapes", Format{
			Info:        FormatInfo{Name: "registry-test-mixed"},
			ReadRaw:     readRawNop,
			WriteRaw:    writeRawNop,
			WriteAspect: writeAspectNop,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Register(tt.f)
		})
	}
}

func TestAllSortedByName(t *testing.T) {
	Register(Format{Info: FormatInfo{Name: "registry-test-z"}, ReadRaw: readRawNop, WriteRaw: writeRawNop})
	Register(Format{Info: FormatInfo{Name: "registry-test-a"}, ReadRaw: readRawNop, WriteRaw: writeRawNop})

	names := Names()
	if len(names) != FormatCount() {
		t.Fatalf("Names() has %d entries, FormatCount() = %d", len(names), FormatCount())
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestOutputNames(t *testing.T) {
	raw := Format{ReadRaw: readRawNop, WriteRaw: writeRawNop}
	if got := OutputNames(raw); len(got) != 1 || got[0] != "output.csv" {
		t.Errorf("OutputNames(raw) = %v, want [output.csv]", got)
	}

	aspect := Format{ReadAspect: readAspectNop, WriteAspect: writeAspectNop}
	want := []string{"output_confirmed.csv", "output_recovered.csv", "output_dead.csv"}
	got := OutputNames(aspect)
	if len(got) != len(want) {
		t.Fatalf("OutputNames(aspect) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OutputNames(aspect)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCheckInputCount(t *testing.T) {
	raw := Format{Info: FormatInfo{Name: "raw"}, ReadRaw: readRawNop, WriteRaw: writeRawNop}
	aspect := Format{Info: FormatInfo{Name: "aspect"}, ReadAspect: readAspectNop, WriteAspect: writeAspectNop}

	tests := []struct {
		name    string
		f       Format
		n       int
		wantErr bool
	}{
		{"raw one", raw, 1, false},
		{"raw many", raw, 5, false},
		{"raw none", raw, 0, true},
		{"aspect three", aspect, 3, false},
		{"aspect two", aspect, 2, true},
		{"aspect four", aspect, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInputCount(tt.f, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckInputCount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsUsageError(err) {
				t.Errorf("error %v should be a usage error", err)
			}
		})
	}
}
