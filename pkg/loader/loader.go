// Package loader reads serialized component trees from disk. The parser
// runs as a separate tool and emits one JSON document per component; this
// package decodes those documents into the tree the analyzer consumes.
package loader

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/ast"
)

// Loader reads component documents from a filesystem.
type Loader struct {
	fs afero.Fs
}

// New creates a loader over the given filesystem.
func New(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// NewOS creates a loader over the host filesystem.
func NewOS() *Loader {
	return New(afero.NewOsFs())
}

// Load reads and decodes one component document.
func (l *Loader) Load(ctx context.Context, path string) (*ast.Root, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	root, err := Decode(data)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("component loaded")
	return root, nil
}

// LoadGlob loads every component document matching a doublestar pattern,
// keyed by path. Patterns like `src/**/*.json` match recursively.
func (l *Loader) LoadGlob(ctx context.Context, pattern string) (map[string]*ast.Root, error) {
	matches, err := doublestar.Glob(afero.NewIOFS(l.fs), pattern)
	if err != nil {
		return nil, errors.Errorf("globbing %s: %w", pattern, err)
	}

	out := make(map[string]*ast.Root, len(matches))
	for _, path := range matches {
		root, err := l.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		out[path] = root
	}

	zerolog.Ctx(ctx).Debug().
		Str("pattern", pattern).
		Int("components", len(out)).
		Msg("glob load complete")
	return out, nil
}
