package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
)

type fakeLoader struct {
	mu     sync.Mutex
	docs   map[string]domain.Document
	errs   map[string]error
	delays map[string]time.Duration
	loaded []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		docs:   make(map[string]domain.Document),
		errs:   make(map[string]error),
		delays: make(map[string]time.Duration),
	}
}

func (f *fakeLoader) add(path string, value any) {
	f.docs[path] = domain.Document{Path: path, Value: value}
}

func (f *fakeLoader) Load(ctx context.Context, path string) (domain.Document, error) {
	f.mu.Lock()
	f.loaded = append(f.loaded, path)
	delay := f.delays[path]
	err := f.errs[path]
	doc, ok := f.docs[path]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return domain.Document{}, err
	}
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrFileAccess, path)
	}
	return doc, nil
}

func (f *fakeLoader) loadedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loaded...)
}

type fakeCompiler struct {
	compiled CompiledSchema
	err      error
	calls    int
}

func (f *fakeCompiler) Compile(ctx context.Context, schema domain.Document) (CompiledSchema, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.compiled, nil
}

// fakeSchema fails documents whose value is a []domain.ValidationError.
type fakeSchema struct {
	err error
}

func (f fakeSchema) Validate(ctx context.Context, instance domain.Document) ([]domain.ValidationError, error) {
	if f.err != nil {
		return nil, f.err
	}
	if errs, ok := instance.Value.([]domain.ValidationError); ok {
		return errs, nil
	}
	return nil, nil
}

type recordingReporter struct {
	schemaErrors []error
	instances    []domain.InstanceResult
	finished     []domain.RunResult
}

func (r *recordingReporter) SchemaInvalid(path string, err error) error {
	r.schemaErrors = append(r.schemaErrors, err)
	return nil
}

func (r *recordingReporter) Instance(result domain.InstanceResult) error {
	r.instances = append(r.instances, result)
	return nil
}

func (r *recordingReporter) Finish(result domain.RunResult) error {
	r.finished = append(r.finished, result)
	return nil
}

func (r *recordingReporter) paths() []string {
	var out []string
	for _, instance := range r.instances {
		out = append(out, instance.Path)
	}
	return out
}

func violations(messages ...string) []domain.ValidationError {
	out := make([]domain.ValidationError, 0, len(messages))
	for _, message := range messages {
		out = append(out, domain.ValidationError{Message: message})
	}
	return out
}

func newTestService(loader *fakeLoader, compiler *fakeCompiler, opts Options) (*Service, *recordingReporter) {
	reporter := &recordingReporter{}
	return NewService(loader, compiler, reporter, opts), reporter
}

func TestRunValidInstance(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{"type": "integer"})
	loader.add("42.json", 42)
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: []string{"42.json"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected overall success")
	}
	if len(reporter.instances) != 1 || !reporter.instances[0].Outcome.Valid() {
		t.Fatalf("expected one valid instance, got %+v", reporter.instances)
	}
	if len(reporter.finished) != 1 {
		t.Fatalf("expected Finish to be called once, got %d", len(reporter.finished))
	}
}

func TestRunInvalidInstanceKeepsErrorOrder(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	loader.add("bad.json", violations("third", "first", "second"))
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: []string{"bad.json"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OK() {
		t.Fatalf("expected overall failure")
	}
	got := reporter.instances[0].Outcome.Errors
	if !reflect.DeepEqual(got, violations("third", "first", "second")) {
		t.Fatalf("expected errors in engine order, got %+v", got)
	}
}

func TestRunSchemaInvalidShortCircuits(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{"type": "not-a-type"})
	compileErr := &domain.SchemaCompileError{Path: "schema.json", Err: errors.New("bad type")}
	service, reporter := newTestService(loader, &fakeCompiler{err: compileErr}, Options{})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: []string{"missing.json", "other.json"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OK() || result.SchemaValid {
		t.Fatalf("expected schema failure, got %+v", result)
	}
	if len(reporter.schemaErrors) != 1 || !errors.Is(reporter.schemaErrors[0], compileErr) {
		t.Fatalf("expected the compile error to be reported once, got %v", reporter.schemaErrors)
	}
	if len(reporter.instances) != 0 {
		t.Fatalf("expected no instance reports, got %+v", reporter.instances)
	}
	if loaded := loader.loadedPaths(); !reflect.DeepEqual(loaded, []string{"schema.json"}) {
		t.Fatalf("expected only the schema to be loaded, got %v", loaded)
	}
	if len(reporter.finished) != 1 {
		t.Fatalf("expected Finish after schema failure")
	}
}

func TestRunSchemaInvalidWithoutInstances(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	compileErr := &domain.SchemaCompileError{Path: "schema.json", Err: errors.New("bad")}
	service, _ := newTestService(loader, &fakeCompiler{err: compileErr}, Options{})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OK() {
		t.Fatalf("expected overall failure without instances")
	}
}

func TestRunCompilerFailureIsFatal(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	compilerErr := errors.New("engine crashed")
	service, reporter := newTestService(loader, &fakeCompiler{err: compilerErr}, Options{})

	_, err := service.Run(context.Background(), Request{SchemaPath: "schema.json"})
	if !errors.Is(err, compilerErr) {
		t.Fatalf("expected compiler error, got %v", err)
	}
	if len(reporter.schemaErrors) != 0 || len(reporter.finished) != 0 {
		t.Fatalf("fatal errors must not be reported")
	}
}

func TestRunWithoutInstances(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected overall success")
	}
	if len(reporter.instances) != 0 {
		t.Fatalf("expected no instance reports")
	}
}

func TestRunReportsInInputOrder(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	loader.add("a.json", violations("nope"))
	loader.add("b.json", "fine")
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: []string{"a.json", "b.json"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OK() {
		t.Fatalf("expected overall failure")
	}
	if !reflect.DeepEqual(reporter.paths(), []string{"a.json", "b.json"}) {
		t.Fatalf("expected a.json before b.json, got %v", reporter.paths())
	}
	if reporter.instances[0].Outcome.Valid() || !reporter.instances[1].Outcome.Valid() {
		t.Fatalf("unexpected outcomes %+v", reporter.instances)
	}
}

func TestRunInstanceLoadFailureAborts(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	loader.add("a.json", "fine")
	loader.add("c.json", "fine")
	loader.errs["b.json"] = fmt.Errorf("%w: b.json", domain.ErrMalformedJSON)
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{})

	_, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: []string{"a.json", "b.json", "c.json"}})
	if !errors.Is(err, domain.ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
	if !reflect.DeepEqual(reporter.paths(), []string{"a.json"}) {
		t.Fatalf("expected only a.json to be reported, got %v", reporter.paths())
	}
	if !reflect.DeepEqual(loader.loadedPaths(), []string{"schema.json", "a.json", "b.json"}) {
		t.Fatalf("expected c.json to be skipped, got %v", loader.loadedPaths())
	}
	if len(reporter.finished) != 0 {
		t.Fatalf("expected no Finish after fatal error")
	}
}

func TestRunSchemaLoadFailureAborts(t *testing.T) {
	loader := newFakeLoader()
	compiler := &fakeCompiler{compiled: fakeSchema{}}
	service, _ := newTestService(loader, compiler, Options{})

	_, err := service.Run(context.Background(), Request{SchemaPath: "missing.json", InstancePaths: []string{"a.json"}})
	if !errors.Is(err, domain.ErrFileAccess) {
		t.Fatalf("expected ErrFileAccess, got %v", err)
	}
	if compiler.calls != 0 {
		t.Fatalf("expected compiler not to run")
	}
}

func TestRunValidatorFailureIsFatal(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	loader.add("a.json", "fine")
	engineErr := errors.New("infinite loop")
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{err: engineErr}}, Options{})

	_, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: []string{"a.json"}})
	if !errors.Is(err, engineErr) {
		t.Fatalf("expected engine error, got %v", err)
	}
	if len(reporter.instances) != 0 {
		t.Fatalf("expected no instance reports")
	}
}

func TestRunRequiresSchemaPath(t *testing.T) {
	service, _ := newTestService(newFakeLoader(), &fakeCompiler{}, Options{})
	_, err := service.Run(context.Background(), Request{SchemaPath: "  "})
	if !errors.Is(err, ErrSchemaPathRequired) {
		t.Fatalf("expected ErrSchemaPathRequired, got %v", err)
	}
}

func TestRunRejectsNegativeJobs(t *testing.T) {
	service, _ := newTestService(newFakeLoader(), &fakeCompiler{}, Options{Jobs: -1})
	_, err := service.Run(context.Background(), Request{SchemaPath: "schema.json"})
	if !errors.Is(err, ErrInvalidJobs) {
		t.Fatalf("expected ErrInvalidJobs, got %v", err)
	}
}

func TestRunParallelReportsInInputOrder(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	var paths []string
	for i := 0; i < 8; i++ {
		path := fmt.Sprintf("%d.json", i)
		paths = append(paths, path)
		if i%3 == 0 {
			loader.add(path, violations(fmt.Sprintf("bad %d", i)))
		} else {
			loader.add(path, "fine")
		}
		// Earlier instances finish last.
		loader.delays[path] = time.Duration(8-i) * 5 * time.Millisecond
	}
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{Jobs: 4})

	result, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: paths})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OK() {
		t.Fatalf("expected overall failure")
	}
	if !reflect.DeepEqual(reporter.paths(), paths) {
		t.Fatalf("expected input order %v, got %v", paths, reporter.paths())
	}
	for i, instance := range reporter.instances {
		if instance.Outcome.Valid() == (i%3 == 0) {
			t.Fatalf("unexpected outcome for %s", instance.Path)
		}
	}
}

func TestRunParallelStopsAtFirstFailure(t *testing.T) {
	loader := newFakeLoader()
	loader.add("schema.json", map[string]any{})
	paths := []string{"0.json", "1.json", "2.json", "3.json", "4.json"}
	for _, path := range paths {
		loader.add(path, "fine")
	}
	loader.errs["2.json"] = fmt.Errorf("%w: 2.json", domain.ErrFileAccess)
	loader.errs["4.json"] = fmt.Errorf("%w: 4.json", domain.ErrMalformedJSON)
	service, reporter := newTestService(loader, &fakeCompiler{compiled: fakeSchema{}}, Options{Jobs: 3})

	_, err := service.Run(context.Background(), Request{SchemaPath: "schema.json", InstancePaths: paths})
	if !errors.Is(err, domain.ErrFileAccess) {
		t.Fatalf("expected the first failure in input order, got %v", err)
	}
	if !reflect.DeepEqual(reporter.paths(), []string{"0.json", "1.json"}) {
		t.Fatalf("expected instances before the failure, got %v", reporter.paths())
	}
	if len(reporter.finished) != 0 {
		t.Fatalf("expected no Finish after fatal error")
	}
}
