// Package view projects the catalog and the current selection into the
// plain data a renderer needs. It has no behavior of its own beyond that
// projection.
package view

import (
	"bookshare/internal/book"
	"bookshare/internal/rating"
	"bookshare/internal/selection"
)

// Catalog is the read side of catalog.Store.
type Catalog interface {
	Books() []book.Book
	FindByID(id string) (book.Book, bool)
}

type Kind string

const (
	KindList     Kind = "list"
	KindDetail   Kind = "detail"
	KindNotFound Kind = "not_found"
)

// ViewModel is one of ListView, DetailView or NotFoundView.
type ViewModel interface {
	Kind() Kind
}

type ListEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	ReviewCount   int    `json:"reviewCount"`
	AverageRating int    `json:"averageRating"`
	Stars         string `json:"stars"`
}

type ListView struct {
	Entries []ListEntry `json:"entries"`
}

type ReviewEntry struct {
	Reader          string `json:"reader"`
	FormattedRating string `json:"formattedRating"`
	Comment         string `json:"comment"`
}

type DetailView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	ImageURL      string        `json:"imageUrl"`
	Publisher     string        `json:"publisher"`
	PublishedYear int           `json:"publishedYear"`
	AverageRating int           `json:"averageRating"`
	Stars         string        `json:"stars"`
	Reviews       []ReviewEntry `json:"reviews"`
}

// NotFoundView is shown when the selected id matches no book.
type NotFoundView struct {
	ID string `json:"id"`
}

func (ListView) Kind() Kind     { return KindList }
func (DetailView) Kind() Kind   { return KindDetail }
func (NotFoundView) Kind() Kind { return KindNotFound }

// Compose returns the view for state: the list when nothing is selected,
// the book's detail when the selected id exists, NotFoundView otherwise.
func Compose(c Catalog, state selection.State) ViewModel {
	if !state.Selected {
		return composeList(c.Books())
	}
	b, ok := c.FindByID(state.ID)
	if !ok {
		return NotFoundView{ID: state.ID}
	}
	return composeDetail(b)
}

func composeList(books []book.Book) ListView {
	entries := make([]ListEntry, 0, len(books))
	for _, b := range books {
		avg := rating.Aggregate(b.Reviews)
		entries = append(entries, ListEntry{
			ID:            b.ID,
			Title:         b.Title,
			ImageURL:      b.ImageURL,
			ReviewCount:   b.ReviewCount(),
			AverageRating: avg,
			Stars:         rating.Format(avg),
		})
	}
	return ListView{Entries: entries}
}

func composeDetail(b book.Book) DetailView {
	reviews := make([]ReviewEntry, 0, len(b.Reviews))
	for _, r := range b.Reviews {
		reviews = append(reviews, ReviewEntry{
			Reader:          r.Reader,
			FormattedRating: rating.Format(r.Rating),
			Comment:         r.Comment,
		})
	}
	avg := rating.Aggregate(b.Reviews)
	return DetailView{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ImageURL:      b.ImageURL,
		Publisher:     b.Publisher,
		PublishedYear: b.PublishedYear,
		AverageRating: avg,
		Stars:         rating.Format(avg),
		Reviews:       reviews,
	}
}
