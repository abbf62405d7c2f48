// Package render turns view models into output for people: HTML pages for
// the web server and plain text for the terminal.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"bookshare/internal/view"
)

const (
	notFoundMessage   = "Book not found."
	loadFailedMessage = "Could not load books. Please try again later."
)

// Renderer writes a view model to w.
type Renderer interface {
	Render(w io.Writer, vm view.ViewModel) error
	RenderLoadError(w io.Writer) error
}

//go:embed templates/*.html
var templateFS embed.FS

// HTML renders full HTML pages.
type HTML struct {
	tmpl *template.Template
}

func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

type messagePage struct {
	Title   string
	Message string
}

func (h *HTML) Render(w io.Writer, vm view.ViewModel) error {
	switch v := vm.(type) {
	case view.ListView:
		return h.tmpl.ExecuteTemplate(w, "list", v)
	case view.DetailView:
		return h.tmpl.ExecuteTemplate(w, "detail", v)
	case view.NotFoundView:
		return h.tmpl.ExecuteTemplate(w, "message", messagePage{Title: "Not found", Message: notFoundMessage})
	default:
		return fmt.Errorf("render: unsupported view model %T", vm)
	}
}

func (h *HTML) RenderLoadError(w io.Writer) error {
	return h.tmpl.ExecuteTemplate(w, "message", messagePage{Title: "Unavailable", Message: loadFailedMessage})
}

// Text renders plain text for terminals.
type Text struct{}

func (Text) Render(w io.Writer, vm view.ViewModel) error {
	var sb strings.Builder
	switch v := vm.(type) {
	case view.ListView:
		if len(v.Entries) == 0 {
			sb.WriteString("No books yet.\n")
		}
		for _, e := range v.Entries {
			fmt.Fprintf(&sb, "[%s] %s\n", e.ID, e.Title)
			fmt.Fprintf(&sb, "    %s  %s\n", e.Stars, readers(e.ReviewCount))
		}
	case view.DetailView:
		fmt.Fprintf(&sb, "%s\n", v.Title)
		fmt.Fprintf(&sb, "by %s\n", v.Author)
		if v.Publisher != "" {
			if v.PublishedYear != 0 {
				fmt.Fprintf(&sb, "%s, %d\n", v.Publisher, v.PublishedYear)
			} else {
				fmt.Fprintf(&sb, "%s\n", v.Publisher)
			}
		}
		fmt.Fprintf(&sb, "%s\n", v.Stars)
		if len(v.Reviews) == 0 {
			sb.WriteString("\nNo reviews yet.\n")
		}
		for _, r := range v.Reviews {
			fmt.Fprintf(&sb, "\n  Reader:  %s\n  Rating:  %s\n  Comment: %s\n", r.Reader, r.FormattedRating, r.Comment)
		}
	case view.NotFoundView:
		sb.WriteString(notFoundMessage + "\n")
	default:
		return fmt.Errorf("render: unsupported view model %T", vm)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (Text) RenderLoadError(w io.Writer) error {
	_, err := io.WriteString(w, loadFailedMessage+"\n")
	return err
}

func readers(n int) string {
	if n == 1 {
		return "1 person has read this"
	}
	return fmt.Sprintf("%d people have read this", n)
}
