package models

import (
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned by storage when nothing has been fetched yet.
var ErrNoSnapshot = errors.New("no snapshot available")

// FetchError reports a network or non-success response while refreshing.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RowFormatError marks a snapshot row whose Division or Teams cell cannot be used.
type RowFormatError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *RowFormatError) Error() string {
	return fmt.Sprintf("line %d: %s %q: %s", e.Line, e.Field, e.Value, e.Reason)
}

type DateParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("line %d: parsing date %q: %v", e.Line, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// DecodeError reports an identifier path segment that is not valid URL-safe base64.
type DecodeError struct {
	Segment string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding segment %q: %v", e.Segment, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
