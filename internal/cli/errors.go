package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/schemacheck/internal/app/validate"
	"github.com/osvaldoandrade/schemacheck/internal/domain"
	"github.com/osvaldoandrade/schemacheck/internal/infra/filesystem"
	"github.com/osvaldoandrade/schemacheck/internal/infra/schema"
)

type ErrorKind string

const (
	KindInternal   ErrorKind = "internal"
	KindInvalid    ErrorKind = "invalid"
	KindUsage      ErrorKind = "usage"
	KindFileAccess ErrorKind = "file_access"
	KindMalformed  ErrorKind = "malformed_json"
)

const (
	ExitInvalid    = 1
	ExitUsage      = 2
	ExitFileAccess = 3
	ExitMalformed  = 4
	ExitInternal   = 5
)

var ErrUnknownOutput = errors.New("unknown output format")

type ExitError struct {
	Code    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e ExitError) Error() string {
	return errorMessage(e)
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return ExitError{Code: ExitUsage, Kind: KindUsage, Err: err}
}

func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitInternal
		}
		return exitErr
	}

	switch {
	case errors.Is(err, validate.ErrValidationFailed):
		return ExitError{Code: ExitInvalid, Kind: KindInvalid, Err: err}
	case errors.Is(err, domain.ErrFileAccess):
		return ExitError{Code: ExitFileAccess, Kind: KindFileAccess, Err: err}
	case errors.Is(err, domain.ErrMalformedJSON):
		return ExitError{Code: ExitMalformed, Kind: KindMalformed, Err: err}
	case errors.Is(err, ErrUnknownOutput),
		errors.Is(err, validate.ErrSchemaPathRequired),
		errors.Is(err, validate.ErrInvalidJobs),
		errors.Is(err, schema.ErrUnknownDraft),
		errors.Is(err, filesystem.ErrStdinConsumed):
		return ExitError{Code: ExitUsage, Kind: KindUsage, Err: err}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Err: err}
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return NormalizeError(err).Code
}

// writeCLIError reports errors that stopped the tool. Failed validations are
// not written: the report already describes them.
func writeCLIError(w io.Writer, exitErr ExitError, asJSON bool) error {
	if exitErr.Code == 0 || exitErr.Kind == KindInvalid {
		return nil
	}
	message := errorMessage(exitErr)
	if asJSON {
		payload := struct {
			Code    int    `json:"code"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}{
			Code:    exitErr.Code,
			Kind:    string(exitErr.Kind),
			Message: message,
		}
		return json.MarshalEncode(jsontext.NewEncoder(w, jsontext.WithIndent("  ")), payload)
	}

	ui := newRenderer(w)
	prefix := "Error"
	if exitErr.Kind != "" {
		prefix = fmt.Sprintf("Error (%s)", exitErr.Kind)
	}
	prefix = ui.err(prefix)
	_, err := fmt.Fprintf(w, "%s: %s\n", prefix, message)
	return err
}

func errorMessage(exitErr ExitError) string {
	if exitErr.Message != "" {
		return exitErr.Message
	}
	if exitErr.Err != nil {
		return exitErr.Err.Error()
	}
	return "unknown error"
}
