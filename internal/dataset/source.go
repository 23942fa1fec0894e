package dataset

import "sync"

// Source memoizes the loaded dataset for the process lifetime so repeated
// reads triggered by dashboard interactions never re-read the file. The
// dataset is read-only after load and safe to share across requests; there
// is no teardown.
type Source struct {
	path string

	once sync.Once
	ds   *Dataset
	err  error
}

// NewSource creates a lazy source for the CSV at path. The file is read on
// the first Dataset call.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Dataset returns the memoized dataset, loading it on first access. A load
// failure is memoized too: every subsequent call returns the same error.
func (s *Source) Dataset() (*Dataset, error) {
	s.once.Do(func() {
		s.ds, s.err = Load(s.path)
	})
	return s.ds, s.err
}

// Path returns the configured source file path.
func (s *Source) Path() string { return s.path }
