// Package csvline tokenizes single lines of unquoted comma-separated text.
//
// Raw-layout provider files never quote or escape fields, so the tokenizer
// is simpler than encoding/csv: a line ends at '\n', a NUL byte, or end of
// stream, and every non-empty run of bytes between commas becomes one field.
package csvline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrOutOfRange is returned when a field index exceeds the line's field count.
	ErrOutOfRange = errors.New("field index out of range")

	// ErrNotNumeric is returned when a field cannot be converted to a number.
	ErrNotNumeric = errors.New("field is not numeric")
)

// Line is the ordered list of fields read from one line of input.
type Line []string

// Read reads one line from r and splits it into fields.
//
// A line with zero fields signals end of input to callers that loop until
// exhaustion. A trailing carriage return is dropped so files written on
// Windows tokenize the same as Unix ones.
func Read(r *bufio.Reader) (Line, error) {
	var (
		line Line
		buf  []byte
	)

	flush := func() {
		if len(buf) > 0 {
			line = append(line, string(buf))
			buf = buf[:0]
		}
	}

	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			flush()
			return line, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read line: %w", err)
		}

		switch c {
		case 0, '\n':
			flush()
			return line, nil
		case ',':
			flush()
		case '\r':
			// dropped only when it terminates the line
			if next, err := r.Peek(1); err == nil && next[0] != '\n' {
				buf = append(buf, c)
			}
		default:
			buf = append(buf, c)
		}
	}
}

// Len returns the number of fields.
func (l Line) Len() int {
	return len(l)
}

// Field returns the raw text of field idx.
func (l Line) Field(idx int) (string, error) {
	if idx < 0 || idx >= len(l) {
		return "", fmt.Errorf("%w: index %d with %d fields", ErrOutOfRange, idx, len(l))
	}
	return l[idx], nil
}

// Uint parses field idx as an unsigned 32-bit integer.
func (l Line) Uint(idx int) (uint32, error) {
	s, err := l.Field(idx)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: field %d %q", ErrNotNumeric, idx, s)
	}
	return uint32(v), nil
}

// Float parses field idx as a float64.
func (l Line) Float(idx int) (float64, error) {
	s, err := l.Field(idx)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %d %q", ErrNotNumeric, idx, s)
	}
	return v, nil
}

// String rejoins the fields with commas. Used to echo malformed lines in
// diagnostics.
func (l Line) String() string {
	return strings.Join(l, ",")
}
