package bundle

import (
	"sync"
)

// Loader reads the model package from disk once and hands the same instance
// to every caller afterwards. The package is never mutated after training,
// so concurrent Get calls need no coordination beyond the one-time load.
type Loader struct {
	path string

	once sync.Once
	pkg  *ModelPackage
	err  error
}

// NewLoader creates a lazy loader for the package at path.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{path: path}
}

// Get returns the cached package, loading it on first use. A failed load is
// cached too: a missing package blocks all inference until the process
// restarts with a trained model in place.
func (l *Loader) Get() (*ModelPackage, error) {
	l.once.Do(func() {
		l.pkg, l.err = Load(l.path)
	})
	return l.pkg, l.err
}
