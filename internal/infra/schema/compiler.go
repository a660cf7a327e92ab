package schema

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/schemacheck/internal/app/validate"
	"github.com/osvaldoandrade/schemacheck/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const stdinResource = "stdin.json"

type Compiler struct {
	// Draft applies when the schema has no $schema keyword. Nil keeps the
	// engine default (2020-12).
	Draft         *jsonschema.Draft
	AssertFormat  bool
	AssertContent bool
}

func (c Compiler) Compile(ctx context.Context, doc domain.Document) (validate.CompiledSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url, err := resourceURL(doc)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if c.Draft != nil {
		compiler.Draft = c.Draft
	}
	compiler.AssertFormat = c.AssertFormat
	compiler.AssertContent = c.AssertContent
	if !c.AssertFormat && c.formatIsAnnotation(doc) {
		for name := range jsonschema.Formats {
			compiler.Formats[name] = acceptAnyFormat
		}
	}

	if err := compiler.AddResource(url, bytes.NewReader(doc.Raw)); err != nil {
		return nil, &domain.SchemaCompileError{Path: doc.Path, Err: err}
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, &domain.SchemaCompileError{Path: doc.Path, Err: err}
	}
	return &Schema{compiled: compiled}, nil
}

// formatIsAnnotation reports whether "format" should only annotate. The
// engine asserts it for schemas without $schema regardless of the draft, so
// the draft default is applied here: drafts 4 to 7 always assert, later
// drafts only when asked to.
func (c Compiler) formatIsAnnotation(doc domain.Document) bool {
	if declaresMetaSchema(doc.Raw) {
		return false
	}
	switch c.Draft {
	case jsonschema.Draft4, jsonschema.Draft6, jsonschema.Draft7:
		return false
	default:
		return true
	}
}

func declaresMetaSchema(raw []byte) bool {
	var root struct {
		Schema jsontext.Value `json:"$schema"`
	}
	if err := json.Unmarshal(raw, &root, jsontext.AllowDuplicateNames(true)); err != nil {
		return false
	}
	return len(root.Schema) > 0
}

func acceptAnyFormat(any) bool {
	return true
}

func resourceURL(doc domain.Document) (string, error) {
	if doc.IsStdin() {
		return stdinResource, nil
	}
	abs, err := filepath.Abs(doc.Path)
	if err != nil {
		return "", fmt.Errorf("resolve schema path: %w", err)
	}
	return abs, nil
}

func ParseDraft(value string) (*jsonschema.Draft, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "":
		return nil, nil
	case "4", "draft4", "draft-04":
		return jsonschema.Draft4, nil
	case "6", "draft6", "draft-06":
		return jsonschema.Draft6, nil
	case "7", "draft7", "draft-07":
		return jsonschema.Draft7, nil
	case "2019", "2019-09", "draft2019-09":
		return jsonschema.Draft2019, nil
	case "2020", "2020-12", "draft2020-12":
		return jsonschema.Draft2020, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDraft, value)
	}
}
