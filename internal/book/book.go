package book

// Book represents a catalog entry together with its reader reviews.
type Book struct {
	ID            string   `json:"id" validate:"required"`
	ImageURL      string   `json:"imageUrl"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Publisher     string   `json:"publisher"`
	PublishedYear int      `json:"publishedYear"`
	Reviews       []Review `json:"reviews" validate:"dive"`
}

// Review is a single reader's opinion of a book.
type Review struct {
	Reader  string `json:"reader"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewCount returns the number of reviews, 0 when there are none.
func (b Book) ReviewCount() int {
	return len(b.Reviews)
}
