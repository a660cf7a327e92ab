package validate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
)

type Service struct {
	loader   DocumentLoader
	compiler SchemaCompiler
	reporter Reporter
	opts     Options
}

func NewService(loader DocumentLoader, compiler SchemaCompiler, reporter Reporter, opts Options) *Service {
	return &Service{
		loader:   loader,
		compiler: compiler,
		reporter: reporter,
		opts:     opts,
	}
}

// Run compiles the schema once and validates every instance against it in
// the order given. Load failures and engine failures abort the run and are
// returned; schema and instance violations are reported and reflected in
// the result.
func (s *Service) Run(ctx context.Context, req Request) (domain.RunResult, error) {
	result := domain.RunResult{RunID: req.RunID, SchemaPath: req.SchemaPath}
	if strings.TrimSpace(req.SchemaPath) == "" {
		return result, ErrSchemaPathRequired
	}
	if s.opts.Jobs < 0 {
		return result, ErrInvalidJobs
	}

	logger := slog.Default().With("run_id", req.RunID)

	schemaDoc, err := s.loader.Load(ctx, req.SchemaPath)
	if err != nil {
		return result, err
	}

	compiled, err := s.compiler.Compile(ctx, schemaDoc)
	if err != nil {
		var compileErr *domain.SchemaCompileError
		if !errors.As(err, &compileErr) {
			return result, err
		}
		logger.Debug("schema rejected", "schema", req.SchemaPath, "error", compileErr.Error())
		result.SchemaError = compileErr
		if err := s.reporter.SchemaInvalid(req.SchemaPath, compileErr); err != nil {
			return result, err
		}
		return result, s.reporter.Finish(result)
	}
	result.SchemaValid = true
	logger.Debug("schema compiled", "schema", req.SchemaPath, "instances", len(req.InstancePaths))

	if s.opts.Jobs > 1 && len(req.InstancePaths) > 1 {
		err = s.runParallel(ctx, logger, compiled, req.InstancePaths, &result)
	} else {
		err = s.runSequential(ctx, logger, compiled, req.InstancePaths, &result)
	}
	if err != nil {
		return result, err
	}

	return result, s.reporter.Finish(result)
}

func (s *Service) runSequential(ctx context.Context, logger *slog.Logger, compiled CompiledSchema, paths []string, result *domain.RunResult) error {
	for _, path := range paths {
		instance, err := s.check(ctx, logger, compiled, path)
		if err != nil {
			return err
		}
		if err := s.record(instance, result); err != nil {
			return err
		}
	}
	return nil
}

type checked struct {
	instance domain.InstanceResult
	err      error
}

// runParallel validates with a bounded pool and reports in input order.
// Instances after the first failing one are skipped, so output matches the
// sequential run.
func (s *Service) runParallel(ctx context.Context, logger *slog.Logger, compiled CompiledSchema, paths []string, result *domain.RunResult) error {
	workers := s.opts.Jobs
	if workers > len(paths) {
		workers = len(paths)
	}

	slots := make([]checked, len(paths))
	jobs := make(chan int, len(paths))
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	var mu sync.Mutex
	firstFailure := len(paths)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				mu.Lock()
				skip := i > firstFailure
				mu.Unlock()
				if skip {
					continue
				}

				instance, err := s.check(ctx, logger, compiled, paths[i])
				slots[i] = checked{instance: instance, err: err}
				if err != nil {
					mu.Lock()
					if i < firstFailure {
						firstFailure = i
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	for i := range paths {
		if i > firstFailure {
			break
		}
		if slots[i].err != nil {
			return slots[i].err
		}
		if err := s.record(slots[i].instance, result); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) check(ctx context.Context, logger *slog.Logger, compiled CompiledSchema, path string) (domain.InstanceResult, error) {
	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		return domain.InstanceResult{}, err
	}

	errs, err := compiled.Validate(ctx, doc)
	if err != nil {
		return domain.InstanceResult{}, err
	}

	outcome := domain.ValidOutcome()
	if len(errs) > 0 {
		outcome = domain.InvalidOutcome(errs)
	}
	logger.Debug("instance validated", "instance", path, "valid", outcome.Valid(), "errors", len(errs))
	return domain.InstanceResult{Path: path, Outcome: outcome}, nil
}

func (s *Service) record(instance domain.InstanceResult, result *domain.RunResult) error {
	result.Instances = append(result.Instances, instance)
	return s.reporter.Instance(instance)
}
