package trajectory

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the trajectory file cannot be opened
	// or read, including when the path is a directory.
	ErrFileNotFound = errors.New("trajectory: file not readable")

	// ErrMalformedRow is matched by every *MalformedRowError.
	ErrMalformedRow = errors.New("trajectory: malformed row")
)

// MalformedRowError describes the first row that did not parse to seven
// floats. Line is 1-based and counts every line of the input, including
// blank and comment lines.
type MalformedRowError struct {
	Line   int
	Fields int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("trajectory: malformed row at line %d (%d fields): %s", e.Line, e.Fields, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedRow) match.
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}
