package core

// errors.go defines the failure taxonomy of a conversion and maps each
// failure to a coded, user-facing message.
//
// Every failure is fatal to the conversion that hits it. The codes exist so
// the CLI and the HTTP service report the same thing for the same problem:
//
//	USE001 - Unknown format name
//	USE002 - Wrong number of input files for the input format
//	USE003 - Input file cannot be opened
//	PAR001 - Malformed row (wrong field count, repeated header, bad code)
//	PAR002 - Numeric value missing, not numeric or overflowing on merge
//	RES001 - Country or region not in the country table
//	BND001 - Field index beyond what a line contains
//	SER001 - Record read before all of its metrics were populated
//	IO001  - Read or write failure on an open stream
//	BSY001 - Every conversion slot is taken (HTTP service)
//	DB001  - Export collided with an existing row
//	DB004  - Export database unreachable
//	DB005  - Export connection interrupted
//	DB006  - Export timed out
//	ERR000 - Anything else
//
// Classification uses errors.Is against the sentinels below and those of
// the csvline and dataset packages, so wrapping with %w keeps codes stable.
// Database errors arrive from pgx as text and fall back to case-insensitive
// substring patterns.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/covidconv/internal/csvline"
	"github.com/JonMunkholm/covidconv/internal/dataset"
)

var (
	// ErrUnknownFormat is returned for a format name not in the registry.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInputCount is returned when the number of inputs does not suit the
	// input format's shape.
	ErrInputCount = errors.New("wrong number of input files")

	// ErrOpenInput is returned when an input file cannot be opened.
	ErrOpenInput = errors.New("cannot open input file")

	// ErrParse is returned for rows that do not match the format's layout.
	ErrParse = errors.New("failed to parse input")

	// ErrShortRead is returned when a row holds fewer values than the
	// country's existing series.
	ErrShortRead = errors.New("failed to read entry")

	// ErrIO is returned for read or write failures on an open stream.
	ErrIO = errors.New("i/o failure")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorKind pairs a sentinel with its user message.
type errorKind struct {
	target error
	msg    UserMessage
}

// errorKinds is checked in order; the first sentinel found in the error
// chain wins. More specific sentinels come first.
var errorKinds = []errorKind{
	{ErrUnknownFormat, UserMessage{
		Message: "Unknown format name",
		Action:  "Use one of the registered format names (case-sensitive)",
		Code:    "USE001",
	}},
	{ErrInputCount, UserMessage{
		Message: "Wrong number of input files",
		Action:  "Aspect formats need exactly 3 files (confirmed, recovered, dead); raw formats need at least 1",
		Code:    "USE002",
	}},
	{ErrOpenInput, UserMessage{
		Message: "Input file cannot be opened",
		Action:  "Check the path and file permissions",
		Code:    "USE003",
	}},
	{ErrShortRead, UserMessage{
		Message: "A row has fewer values than the dates already read",
		Action:  "Check that all aspect files cover the same dates",
		Code:    "PAR002",
	}},
	{dataset.ErrOverflow, UserMessage{
		Message: "Merged rows add up to more than a metric can hold",
		Action:  "Check province rows of the same country for corrupt values",
		Code:    "PAR002",
	}},
	{csvline.ErrNotNumeric, UserMessage{
		Message: "Expected a number",
		Action:  "Check metric, latitude and longitude columns for text",
		Code:    "PAR002",
	}},
	{dataset.ErrInvalidCode, UserMessage{
		Message: "Country code is not 2 characters of 0-9 or A-Z",
		Action:  "Use uppercase two-letter country codes",
		Code:    "PAR001",
	}},
	{ErrParse, UserMessage{
		Message: "Row does not match the input format",
		Action:  "Check the input format name and the row's field count",
		Code:    "PAR001",
	}},
	{dataset.ErrUnresolved, UserMessage{
		Message: "Country not found in the country table",
		Action:  "Use the canonical country name",
		Code:    "RES001",
	}},
	{csvline.ErrOutOfRange, UserMessage{
		Message: "Row is missing a field",
		Action:  "Check the row's field count",
		Code:    "BND001",
	}},
	{dataset.ErrUnpopulated, UserMessage{
		Message: "A metric was never supplied",
		Action:  "Provide confirmed, recovered and dead inputs covering the same countries",
		Code:    "SER001",
	}},
	{ErrBusy, UserMessage{
		Message: "Too many conversions in progress",
		Action:  "Please wait a moment and try again",
		Code:    "BSY001",
	}},
	{ErrIO, UserMessage{
		Message: "Reading or writing a file failed",
		Action:  "Check disk space and permissions",
		Code:    "IO001",
	}},
}

// errorPattern maps a substring of an error's text to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is consulted only when no sentinel matches. First match wins.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{
		Message: "This run was already exported",
		Action:  "Re-run the conversion to export under a new run ID",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to the export database",
		Action:  "Check DATABASE_URL or unset it to skip export",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try again later",
		Code:    "DB006",
	}},
	{"deadline exceeded", UserMessage{
		Message: "Operation timed out",
		Action:  "Try again later",
		Code:    "DB006",
	}},
}

// defaultMessage is returned when no sentinel matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the underlying error",
	Code:    "ERR000",
}

// MapError converts a conversion error to a user-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// IsUsageError reports whether err was caused by how the conversion was
// invoked rather than by the data.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrInputCount) ||
		errors.Is(err, ErrOpenInput)
}

// IsDataError reports whether err was caused by the content of an input.
func IsDataError(err error) bool {
	switch MapError(err).Code {
	case "PAR001", "PAR002", "RES001", "BND001", "SER001":
		return true
	}
	return false
}

// FormatUserError renders err as "technical error [CODE]".
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v [%s]", err, MapError(err).Code)
}
