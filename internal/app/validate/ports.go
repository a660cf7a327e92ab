package validate

import (
	"context"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
)

type DocumentLoader interface {
	Load(ctx context.Context, path string) (domain.Document, error)
}

// SchemaCompiler returns *domain.SchemaCompileError when the document is not
// a usable schema. Any other error aborts the run.
type SchemaCompiler interface {
	Compile(ctx context.Context, schema domain.Document) (CompiledSchema, error)
}

// CompiledSchema must be safe for concurrent use. A non-nil error aborts the
// run; violations are returned in the order the engine produced them.
type CompiledSchema interface {
	Validate(ctx context.Context, instance domain.Document) ([]domain.ValidationError, error)
}

type Reporter interface {
	SchemaInvalid(path string, err error) error
	Instance(result domain.InstanceResult) error
	Finish(result domain.RunResult) error
}
