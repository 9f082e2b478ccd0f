package storage

import (
	"errors"
	"fmt"
)

// errUndefinedRecord marks placeholder values such as "undefined" or "null"
// written in place of a real record.
var errUndefinedRecord = errors.New("placeholder value instead of a record")

// errMissingID marks a record that parsed but cannot key profile requests.
var errMissingID = errors.New("record has no id")

// ParseError reports a persisted entry that exists but cannot be decoded.
// Callers treat the session as absent and purge the entry.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %q entry: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
