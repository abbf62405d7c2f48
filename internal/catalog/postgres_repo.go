package catalog

import (
	"context"
	"fmt"

	"bookshare/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads the catalog from the books and reviews tables
// created by db/migrations.
type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) String() string {
	return "postgres"
}

// Fetch reads books and reviews inside one read-only transaction so both
// queries see the same data.
func (s *PostgresSource) Fetch(ctx context.Context) ([]book.Book, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %w", ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	const booksSQL = `
		SELECT id, image_url, title, author, publisher, published_year
		FROM books
		ORDER BY position, id`

	rows, err := tx.Query(ctx, booksSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query books: %w", ErrUnavailable, err)
	}

	books := []book.Book{}
	index := make(map[string]int)
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.ImageURL, &b.Title, &b.Author, &b.Publisher, &b.PublishedYear); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scan book: %w", ErrMalformed, err)
		}
		index[b.ID] = len(books)
		books = append(books, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read books: %w", ErrUnavailable, err)
	}

	const reviewsSQL = `
		SELECT book_id, reader, rating, comment
		FROM reviews
		ORDER BY book_id, position`

	rows, err = tx.Query(ctx, reviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query reviews: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID string
			r      book.Review
		)
		if err := rows.Scan(&bookID, &r.Reader, &r.Rating, &r.Comment); err != nil {
			return nil, fmt.Errorf("%w: scan review: %w", ErrMalformed, err)
		}
		i, ok := index[bookID]
		if !ok {
			return nil, fmt.Errorf("%w: review for unknown book %q", ErrMalformed, bookID)
		}
		books[i].Reviews = append(books[i].Reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read reviews: %w", ErrUnavailable, err)
	}

	return books, nil
}

// SeedPostgres replaces the contents of the books and reviews tables with
// books, keeping their order. It is used by operator tooling only.
func SeedPostgres(ctx context.Context, db *pgxpool.Pool, books []book.Book) error {
	if err := book.Validate(books); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE reviews, books`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	const bookSQL = `
		INSERT INTO books (id, position, image_url, title, author, publisher, published_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const reviewSQL = `
		INSERT INTO reviews (book_id, position, reader, rating, comment)
		VALUES ($1, $2, $3, $4, $5)`

	batch := &pgx.Batch{}
	for i, b := range books {
		batch.Queue(bookSQL, b.ID, i, b.ImageURL, b.Title, b.Author, b.Publisher, b.PublishedYear)
		for j, r := range b.Reviews {
			batch.Queue(reviewSQL, b.ID, j, r.Reader, r.Rating, r.Comment)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}

	return tx.Commit(ctx)
}
