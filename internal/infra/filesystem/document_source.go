package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/osvaldoandrade/schemacheck/internal/domain"
)

var ErrStdinConsumed = errors.New("standard input can only be read once")

type DocumentSource struct {
	stdin io.Reader

	mu       sync.Mutex
	consumed bool
}

func NewDocumentSource(stdin io.Reader) *DocumentSource {
	return &DocumentSource{stdin: stdin}
}

func (s *DocumentSource) ReadDocument(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if path == domain.StdinPath {
		return s.readStdin()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrFileAccess, path, unwrapPathError(err))
	}
	return data, nil
}

func (s *DocumentSource) readStdin() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return nil, ErrStdinConsumed
	}
	s.consumed = true
	if s.stdin == nil {
		return nil, fmt.Errorf("%w: read stdin: no input attached", domain.ErrFileAccess)
	}
	data, err := io.ReadAll(s.stdin)
	if err != nil {
		return nil, fmt.Errorf("%w: read stdin: %w", domain.ErrFileAccess, err)
	}
	return data, nil
}

// unwrapPathError drops the *os.PathError wrapper; the path is already in the message.
func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
