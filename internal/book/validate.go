package book

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every data-integrity failure reported by Validate.
var ErrInvalid = errors.New("invalid book data")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError describes a single integrity violation in a catalog.
type ValidationError struct {
	BookID  string `json:"book_id"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.BookID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("book %q: %s: %s", e.BookID, e.Field, e.Message)
}

// Validate checks ids are present and unique and that every rating is in 1..5.
// It returns nil or an error wrapping ErrInvalid listing every violation.
func Validate(books []Book) error {
	var problems []ValidationError
	seen := make(map[string]struct{}, len(books))

	for i, b := range books {
		if b.ID != "" {
			if _, dup := seen[b.ID]; dup {
				problems = append(problems, ValidationError{BookID: b.ID, Field: "id", Message: "id is duplicated"})
			}
			seen[b.ID] = struct{}{}
		}
		problems = append(problems, validateStruct(i, b)...)
	}

	if len(problems) == 0 {
		return nil
	}
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func validateStruct(index int, b Book) []ValidationError {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{BookID: b.ID, Field: "book", Message: err.Error()}}
	}

	bookID := b.ID
	if bookID == "" {
		bookID = fmt.Sprintf("#%d", index)
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		var message string
		switch fe.Tag() {
		case "required":
			message = "is required"
		case "min", "max":
			message = fmt.Sprintf("must be between 1 and 5, got %v", fe.Value())
		default:
			message = "is invalid"
		}
		out = append(out, ValidationError{
			BookID:  bookID,
			Field:   fieldPath(fe.Namespace()),
			Message: message,
		})
	}
	return out
}

// fieldPath turns "Book.reviews[0].rating" into "reviews[0].rating".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}
