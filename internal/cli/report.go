package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/schemacheck/internal/domain"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

func ParseOutputFormat(value string) (OutputFormat, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", string(OutputText):
		return OutputText, nil
	case string(OutputJSON):
		return OutputJSON, nil
	default:
		return OutputText, fmt.Errorf("%w %q (use text or json)", ErrUnknownOutput, value)
	}
}

// textReporter streams one block per instance as soon as it is known.
type textReporter struct {
	out io.Writer
	ui  renderer
}

func newTextReporter(out io.Writer) *textReporter {
	return &textReporter{out: out, ui: newRenderer(out)}
}

func (r *textReporter) SchemaInvalid(path string, err error) error {
	_, werr := fmt.Fprintf(r.out, "%s. Error: %s\n", r.ui.err("Schema is invalid"), err)
	return werr
}

func (r *textReporter) Instance(result domain.InstanceResult) error {
	if result.Outcome.Valid() {
		_, err := fmt.Fprintf(r.out, "%s - %s\n", result.Path, r.ui.ok("VALID"))
		return err
	}

	if _, err := fmt.Fprintf(r.out, "%s - %s. Errors:\n", result.Path, r.ui.err("INVALID")); err != nil {
		return err
	}
	for i, validationErr := range result.Outcome.Errors {
		index := r.ui.dim(fmt.Sprintf("%d.", i+1))
		if _, err := fmt.Fprintf(r.out, "%s %s\n", index, validationErr.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r *textReporter) Finish(domain.RunResult) error {
	return nil
}

type jsonReport struct {
	RunID       string         `json:"run_id"`
	Schema      string         `json:"schema"`
	Valid       bool           `json:"valid"`
	SchemaError string         `json:"schema_error,omitempty"`
	Instances   []jsonInstance `json:"instances"`
}

type jsonInstance struct {
	Path   string      `json:"path"`
	Valid  bool        `json:"valid"`
	Errors []jsonError `json:"errors,omitempty"`
}

type jsonError struct {
	Index                   int    `json:"index"`
	Message                 string `json:"message"`
	InstanceLocation        string `json:"instance_location"`
	KeywordLocation         string `json:"keyword_location"`
	AbsoluteKeywordLocation string `json:"absolute_keyword_location,omitempty"`
}

// jsonReporter writes a single document once the run is complete.
type jsonReporter struct {
	out io.Writer
}

func newJSONReporter(out io.Writer) *jsonReporter {
	return &jsonReporter{out: out}
}

func (r *jsonReporter) SchemaInvalid(string, error) error {
	return nil
}

func (r *jsonReporter) Instance(domain.InstanceResult) error {
	return nil
}

func (r *jsonReporter) Finish(result domain.RunResult) error {
	report := jsonReport{
		RunID:     result.RunID,
		Schema:    result.SchemaPath,
		Valid:     result.OK(),
		Instances: make([]jsonInstance, 0, len(result.Instances)),
	}
	if result.SchemaError != nil {
		report.SchemaError = result.SchemaError.Error()
	}
	for _, instance := range result.Instances {
		item := jsonInstance{Path: instance.Path, Valid: instance.Outcome.Valid()}
		for i, validationErr := range instance.Outcome.Errors {
			item.Errors = append(item.Errors, jsonError{
				Index:                   i + 1,
				Message:                 validationErr.Message,
				InstanceLocation:        validationErr.InstanceLocation,
				KeywordLocation:         validationErr.KeywordLocation,
				AbsoluteKeywordLocation: validationErr.AbsoluteKeywordLocation,
			})
		}
		report.Instances = append(report.Instances, item)
	}

	return json.MarshalEncode(jsontext.NewEncoder(r.out, jsontext.WithIndent("  ")), report)
}
