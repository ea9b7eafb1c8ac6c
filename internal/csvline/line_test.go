package csvline

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Line
	}{
		{
			name:  "single line without newline",
			input: "a,b,c",
			want:  []Line{{"a", "b", "c"}},
		},
		{
			name:  "multiple lines",
			input: "2020/01/22,QA,Qatar\n2020/01/23,QA,Qatar\n",
			want:  []Line{{"2020/01/22", "QA", "Qatar"}, {"2020/01/23", "QA", "Qatar"}, nil},
		},
		{
			name:  "empty fields are dropped",
			input: "a,,b,\n",
			want:  []Line{{"a", "b"}, nil},
		},
		{
			name:  "NUL ends the line",
			input: "a,b\x00c,d\n",
			want:  []Line{{"a", "b"}, {"c", "d"}, nil},
		},
		{
			name:  "CRLF line endings",
			input: "a,b\r\nc\r\n",
			want:  []Line{{"a", "b"}, {"c"}, nil},
		},
		{
			name:  "whitespace is kept",
			input: "Bolivia, Plurinational State of\n",
			want:  []Line{{"Bolivia", " Plurinational State of"}, nil},
		},
		{
			name:  "empty input",
			input: "",
			want:  []Line{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(strings.NewReader(tt.input))
			var got []Line
			for range tt.want {
				line, err := Read(r)
				if err != nil {
					t.Fatalf("Read() error = %v", err)
				}
				got = append(got, line)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineAccessors(t *testing.T) {
	line := Line{"2020/01/22", "US", "37.1", "-95.7", "42", "x"}

	if got, err := line.Uint(4); err != nil || got != 42 {
		t.Errorf("Uint(4) = %d, %v, want 42, nil", got, err)
	}
	if got, err := line.Float(2); err != nil || got != 37.1 {
		t.Errorf("Float(2) = %v, %v, want 37.1, nil", got, err)
	}
	if got, err := line.Float(3); err != nil || got != -95.7 {
		t.Errorf("Float(3) = %v, %v, want -95.7, nil", got, err)
	}

	if _, err := line.Uint(6); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Uint(6) error = %v, want ErrOutOfRange", err)
	}
	if _, err := line.Float(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Float(-1) error = %v, want ErrOutOfRange", err)
	}
	if _, err := line.Uint(5); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Uint(5) error = %v, want ErrNotNumeric", err)
	}
	if _, err := line.Uint(3); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Uint(3) on negative value error = %v, want ErrNotNumeric", err)
	}
}

func TestLineString(t *testing.T) {
	line := Line{"a", "b", "c"}
	if got := line.String(); got != "a,b,c" {
		t.Errorf("String() = %q, want %q", got, "a,b,c")
	}
	if got := Line(nil).String(); got != "" {
		t.Errorf("String() on empty line = %q, want empty", got)
	}
}
