package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
)

type Source interface {
	ReadDocument(ctx context.Context, path string) ([]byte, error)
}

type Options struct {
	// Strict rejects objects that repeat a member name.
	Strict bool
}

// Loader reads documents from a Source and decodes them into the generic
// value model understood by the schema engine: nil, bool, json.Number,
// string, []any and map[string]any.
type Loader struct {
	source Source
	opts   Options
}

func NewLoader(source Source, opts Options) *Loader {
	return &Loader{source: source, opts: opts}
}

func (l *Loader) Load(ctx context.Context, path string) (domain.Document, error) {
	raw, err := l.source.ReadDocument(ctx, path)
	if err != nil {
		return domain.Document{}, err
	}

	if !isYAML(path) {
		value, err := decodeJSON(raw, l.opts.Strict)
		if err != nil {
			return domain.Document{}, malformed(path, err)
		}
		return domain.Document{Path: path, Raw: raw, Value: value}, nil
	}

	value, err := decodeYAML(raw)
	if err != nil {
		return domain.Document{}, malformed(path, err)
	}
	// The schema engine compiles from JSON text; json.Number values are
	// written back verbatim.
	text, err := json.Marshal(value)
	if err != nil {
		return domain.Document{}, malformed(path, err)
	}
	return domain.Document{Path: path, Raw: text, Value: value}, nil
}

func malformed(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrMalformedJSON, displayName(path), err)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func displayName(path string) string {
	if path == domain.StdinPath {
		return "stdin"
	}
	return path
}
