package schemacheck

import (
	"context"
	"strings"

	"github.com/osvaldoandrade/schemacheck/internal/app/validate"
	"github.com/osvaldoandrade/schemacheck/internal/domain"
	"github.com/osvaldoandrade/schemacheck/internal/infra/filesystem"
	"github.com/osvaldoandrade/schemacheck/internal/infra/ident"
	"github.com/osvaldoandrade/schemacheck/internal/infra/jsondoc"
	"github.com/osvaldoandrade/schemacheck/internal/infra/schema"
)

// Client validates files without going through the command line.
type Client struct {
	cfg      Config
	compiler schema.Compiler
	ids      *ident.RunIDGenerator
}

type ValidationError struct {
	Message                 string
	InstanceLocation        string
	KeywordLocation         string
	AbsoluteKeywordLocation string
}

type InstanceResult struct {
	Path   string
	Valid  bool
	Errors []ValidationError
}

type Result struct {
	RunID       string
	Schema      string
	Valid       bool
	SchemaError string
	Instances   []InstanceResult
}

func New(cfg Config) (*Client, error) {
	normalized, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	draft, err := schema.ParseDraft(normalized.Draft)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg: normalized,
		compiler: schema.Compiler{
			Draft:         draft,
			AssertFormat:  normalized.AssertFormat,
			AssertContent: normalized.AssertContent,
		},
		ids: ident.NewRunIDGenerator(),
	}, nil
}

// ValidateFiles compiles the schema and validates each instance file. A
// returned error means the run could not complete (unreadable or malformed
// files); schema and instance violations are described by the Result.
func (c *Client) ValidateFiles(ctx context.Context, schemaPath string, instancePaths ...string) (Result, error) {
	if strings.TrimSpace(schemaPath) == "" {
		return Result{}, ErrSchemaPathRequired
	}
	runID, err := c.ids.NewID()
	if err != nil {
		return Result{}, err
	}

	loader := jsondoc.NewLoader(filesystem.NewDocumentSource(nil), jsondoc.Options{Strict: c.cfg.Strict})
	service := validate.NewService(loader, c.compiler, discardReporter{}, validate.Options{Jobs: c.cfg.Jobs})
	run, err := service.Run(ctx, validate.Request{
		RunID:         runID,
		SchemaPath:    schemaPath,
		InstancePaths: instancePaths,
	})
	if err != nil {
		return Result{}, err
	}
	return toResult(run), nil
}

func toResult(run domain.RunResult) Result {
	result := Result{
		RunID:  run.RunID,
		Schema: run.SchemaPath,
		Valid:  run.OK(),
	}
	if run.SchemaError != nil {
		result.SchemaError = run.SchemaError.Error()
	}
	for _, instance := range run.Instances {
		item := InstanceResult{Path: instance.Path, Valid: instance.Outcome.Valid()}
		for _, validationErr := range instance.Outcome.Errors {
			item.Errors = append(item.Errors, ValidationError(validationErr))
		}
		result.Instances = append(result.Instances, item)
	}
	return result
}

type discardReporter struct{}

func (discardReporter) SchemaInvalid(string, error) error { return nil }

func (discardReporter) Instance(domain.InstanceResult) error { return nil }

func (discardReporter) Finish(domain.RunResult) error { return nil }
