package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"bookshare/internal/book"

	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses a JSON array of books. A JSON null decodes to an empty
// catalog. Anything after the array is an error.
func Decode(r io.Reader) ([]book.Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrUnavailable, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: decode: invalid JSON", ErrMalformed)
	}

	var books []book.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMalformed, err)
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) String() string {
	return s.Path
}

func (s *FileSource) Fetch(ctx context.Context) ([]book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrUnavailable, s.Path)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	return Decode(f)
}

// SourceOptions tunes sources created by NewSource.
type SourceOptions struct {
	UserAgent  string
	RPS        int
	MaxRetries int
}

// NewSource picks a source from uri: http(s) URLs are fetched over HTTP,
// postgres URLs are read from the database, anything else is a file path.
// The returned close function releases resources held by the source.
func NewSource(ctx context.Context, uri string, opts SourceOptions) (Source, func(), error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return NewHTTPSource(uri, opts.UserAgent, opts.RPS, opts.MaxRetries), func() {}, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		pool, err := pgxpool.New(ctx, uri)
		if err != nil {
			return nil, nil, fmt.Errorf("create db pool: %w", err)
		}
		return NewPostgresSource(pool), pool.Close, nil
	case uri == "":
		return nil, nil, errors.New("catalog source is required")
	default:
		return NewFileSource(uri), func() {}, nil
	}
}
