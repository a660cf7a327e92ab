package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema wraps a compiled schema. The engine's compiled form is read-only,
// so one Schema serves concurrent validations.
type Schema struct {
	compiled *jsonschema.Schema
}

func (s *Schema) Validate(ctx context.Context, instance domain.Document) ([]domain.ValidationError, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := s.compiled.Validate(instance.Value)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return flatten(validationErr, nil), nil
	}
	return nil, fmt.Errorf("validate %s: %w", instance.Path, err)
}

// flatten collects the leaves of the engine's error tree depth-first. A failed
// anyOf or oneOf is one violation; its branch failures are not listed.
func flatten(err *jsonschema.ValidationError, out []domain.ValidationError) []domain.ValidationError {
	if len(err.Causes) == 0 || isAlternatives(err.KeywordLocation) {
		return append(out, domain.ValidationError{
			Message:                 err.Message,
			InstanceLocation:        err.InstanceLocation,
			KeywordLocation:         err.KeywordLocation,
			AbsoluteKeywordLocation: err.AbsoluteKeywordLocation,
		})
	}
	for _, cause := range err.Causes {
		out = flatten(cause, out)
	}
	return out
}

func isAlternatives(keywordLocation string) bool {
	return strings.HasSuffix(keywordLocation, "/anyOf") || strings.HasSuffix(keywordLocation, "/oneOf")
}
