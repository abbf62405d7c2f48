package testutil

import (
	"context"
	"sync"

	"bookshare/internal/book"
)

// Books returns a fresh copy of the catalog fixture: one book with two
// reviews averaging 4.5 and one book without reviews.
func Books() []book.Book {
	return []book.Book{
		{
			ID:            "b1",
			ImageURL:      "https://example.com/b1.jpg",
			Title:         "Kitchen",
			Author:        "Banana Yoshimoto",
			Publisher:     "Fukutake",
			PublishedYear: 1988,
			Reviews: []book.Review{
				{Reader: "Aoi", Rating: 5, Comment: "moving"},
				{Reader: "Ren", Rating: 4, Comment: "short and sweet"},
			},
		},
		{
			ID:       "b2",
			ImageURL: "https://example.com/b2.jpg",
			Title:    "The Tale of Genji",
			Author:   "Murasaki Shikibu",
		},
	}
}

// Source is a catalog source whose result can be switched between calls.
type Source struct {
	mu    sync.Mutex
	books []book.Book
	err   error
	calls int
}

// StaticSource returns books on every fetch.
func StaticSource(books []book.Book) *Source {
	return &Source{books: books}
}

func (s *Source) Fetch(ctx context.Context) ([]book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.books, nil
}

// Fail makes later fetches return err; nil restores success.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
