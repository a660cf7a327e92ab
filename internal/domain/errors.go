package domain

import (
	"errors"
	"fmt"
)

var ErrFileAccess = errors.New("file access failed")
var ErrMalformedJSON = errors.New("malformed json")

// SchemaCompileError reports a schema that is valid JSON but not a valid schema.
type SchemaCompileError struct {
	Path string
	Err  error
}

func (e *SchemaCompileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("schema %s is invalid", e.Path)
	}
	return e.Err.Error()
}

func (e *SchemaCompileError) Unwrap() error {
	return e.Err
}
