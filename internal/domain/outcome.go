package domain

import "fmt"

type ValidationError struct {
	Message                 string
	InstanceLocation        string
	KeywordLocation         string
	AbsoluteKeywordLocation string
}

// String renders the error for report lines. Errors at the document root
// carry no location prefix.
func (e ValidationError) String() string {
	if e.InstanceLocation == "" || e.InstanceLocation == "/" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.InstanceLocation, e.Message)
}

type Outcome struct {
	Errors []ValidationError
}

func ValidOutcome() Outcome {
	return Outcome{}
}

func InvalidOutcome(errs []ValidationError) Outcome {
	return Outcome{Errors: errs}
}

func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

type InstanceResult struct {
	Path    string
	Outcome Outcome
}

type RunResult struct {
	RunID       string
	SchemaPath  string
	SchemaValid bool
	SchemaError error
	Instances   []InstanceResult
}

// OK reports overall success: the schema compiled and every instance is valid.
func (r RunResult) OK() bool {
	if !r.SchemaValid {
		return false
	}
	for _, instance := range r.Instances {
		if !instance.Outcome.Valid() {
			return false
		}
	}
	return true
}
