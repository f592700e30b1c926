package dataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-gota/gota/dataframe"
)

// Store owns the single active dataset. It is either Empty or Loaded;
// failed operations never change state. Get hands out snapshot copies,
// so callers can never mutate the stored frame behind the store's back.
type Store struct {
	mu   sync.RWMutex
	df   *dataframe.DataFrame
	path string
}

func NewStore() *Store {
	return &Store{}
}

// Load parses the file at path and installs the result. The context
// bounds the parse; on expiry or cancellation the store keeps its prior
// state and the context error is returned.
func (s *Store) Load(ctx context.Context, path string) (dataframe.DataFrame, error) {
	type result struct {
		df  dataframe.DataFrame
		err error
	}
	ch := make(chan result, 1)
	go func() {
		df, err := Load(path)
		ch <- result{df: df, err: err}
	}()

	select {
	case <-ctx.Done():
		return dataframe.DataFrame{}, fmt.Errorf("dataset load aborted: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return dataframe.DataFrame{}, r.err
		}
		if err := ctx.Err(); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("dataset load aborted: %w", err)
		}
		if err := s.Set(r.df); err != nil {
			return dataframe.DataFrame{}, err
		}
		s.mu.Lock()
		s.path = path
		s.mu.Unlock()
		return r.df, nil
	}
}

// Get returns a copy of the current dataset, or DatasetNotLoadedError
// when the store is empty.
func (s *Store) Get() (dataframe.DataFrame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.df == nil {
		return dataframe.DataFrame{}, &DatasetNotLoadedError{}
	}
	return s.df.Copy(), nil
}

// Set validates df and adopts it as the current dataset, replacing any
// previous one.
func (s *Store) Set(df dataframe.DataFrame) error {
	if err := validate(df); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.df = &df
	return nil
}

// Clear discards the current dataset; Get fails until the next Load/Set.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.df = nil
	s.path = ""
}

// Loaded reports whether a dataset is currently installed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.df != nil
}

// Path returns the file the current dataset was loaded from, if any.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

func validate(df dataframe.DataFrame) error {
	if df.Err != nil {
		return &ValidationError{Reason: df.Err.Error()}
	}
	if df.Ncol() == 0 {
		return &ValidationError{Reason: "dataset has no columns"}
	}
	seen := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		if name == "" {
			return &ValidationError{Reason: "dataset has an unnamed column"}
		}
		if seen[name] {
			return &ValidationError{Reason: fmt.Sprintf("duplicate column name %q", name)}
		}
		seen[name] = true
	}
	return nil
}
