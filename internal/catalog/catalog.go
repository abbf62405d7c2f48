// Package catalog holds the read-only book collection for a session and
// loads it from a pluggable data source.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookshare/internal/book"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrUnavailable means the data source could not be reached or read.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrMalformed means the data was read but could not be parsed or failed validation.
	ErrMalformed = errors.New("catalog malformed")
)

var tracer = otel.Tracer("bookshare/internal/catalog")

// Source yields the complete catalog. Implementations wrap their failures
// with ErrUnavailable or ErrMalformed.
type Source interface {
	Fetch(ctx context.Context) ([]book.Book, error)
}

// LoadError is returned by Store.Load. The store keeps its previous
// contents whenever a LoadError is returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type snapshot struct {
	books    []book.Book
	index    map[string]int
	loadedAt time.Time
}

// Store holds the loaded books. Reads never observe a partial load.
type Store struct {
	src Source
	now func() time.Time

	mu   sync.RWMutex
	snap *snapshot
}

// NewStore creates an empty store backed by src.
func NewStore(src Source) *Store {
	return &Store{src: src, now: time.Now}
}

// Load fetches and validates the full catalog, then replaces the store
// contents in one step. It may be called again to refresh.
func (s *Store) Load(ctx context.Context) ([]book.Book, error) {
	name := sourceName(s.src)
	ctx, span := tracer.Start(ctx, "catalog.Load", trace.WithAttributes(attribute.String("catalog.source", name)))
	defer span.End()

	books, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &LoadError{Source: name, Err: err}
	}

	snap := &snapshot{
		books:    cloneBooks(books),
		index:    make(map[string]int, len(books)),
		loadedAt: s.now(),
	}
	for i, b := range snap.books {
		snap.index[b.ID] = i
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("catalog.books", len(snap.books)))
	return cloneBooks(snap.books), nil
}

func (s *Store) fetch(ctx context.Context) ([]book.Book, error) {
	if s.src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrUnavailable)
	}
	books, err := s.src.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := book.Validate(books); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return books, nil
}

// FindByID returns the book with the given id. ok is false when no such
// book is loaded.
func (s *Store) FindByID(id string) (b book.Book, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return book.Book{}, false
	}
	i, ok := s.snap.index[id]
	if !ok {
		return book.Book{}, false
	}
	return s.snap.books[i], true
}

// Books returns the loaded books in catalog order; nil before the first
// successful load. Callers must not modify the returned reviews.
func (s *Store) Books() []book.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return nil
	}
	out := make([]book.Book, len(s.snap.books))
	copy(out, s.snap.books)
	return out
}

// Loaded reports whether a load has ever succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// LoadedAt is the time of the last successful load, zero if none.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return time.Time{}
	}
	return s.snap.loadedAt
}

func cloneBooks(books []book.Book) []book.Book {
	if books == nil {
		return []book.Book{}
	}
	out := make([]book.Book, len(books))
	for i, b := range books {
		if b.Reviews != nil {
			b.Reviews = append([]book.Review(nil), b.Reviews...)
		}
		out[i] = b
	}
	return out
}

func sourceName(src Source) string {
	if st, ok := src.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", src)
}
