package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"bookshare/internal/catalog"
	"bookshare/internal/platform/config"
	"bookshare/internal/render"
	"bookshare/internal/selection"
	"bookshare/internal/view"
)

const helpText = `commands:
  list          show all books
  open <id>     show one book
  back          return to the list
  reload        load the catalog again
  help          show this help
  quit          exit
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, closeSource, err := catalog.NewSource(ctx, cfg.CatalogSource, catalog.SourceOptions{
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.CatalogHTTPRPS,
		MaxRetries: cfg.CatalogHTTPRetries,
	})
	if err != nil {
		log.Fatalf("catalog source: %v", err)
	}
	defer closeSource()

	s := newSession(catalog.NewStore(src), os.Stdout, cfg.CatalogLoadTimeout)
	if err := s.run(ctx, os.Stdin); err != nil {
		log.Fatalf("shell: %v", err)
	}
}

// session is one reader at one terminal: a catalog, a selection and a
// renderer.
type session struct {
	store       *catalog.Store
	selection   *selection.Controller
	renderer    render.Renderer
	out         io.Writer
	loadTimeout time.Duration
}

func newSession(store *catalog.Store, out io.Writer, loadTimeout time.Duration) *session {
	return &session{
		store:       store,
		selection:   selection.NewController(),
		renderer:    render.Text{},
		out:         out,
		loadTimeout: loadTimeout,
	}
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	s.load(ctx)
	if err := s.show(); err != nil {
		return err
	}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := readLines(readCtx, in)
	for {
		fmt.Fprint(s.out, "> ")

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = l
		}

		quit, err := s.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine so a blocked read does not hold
// up cancellation. The goroutine stops once ctx is done and the pending
// read returns.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// handle executes one command line and reports whether the session should end.
func (s *session) handle(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		_, err = io.WriteString(s.out, helpText)
		return false, err
	case "list", "back":
		s.selection.ClearSelection()
	case "open":
		if arg == "" {
			_, err = io.WriteString(s.out, "usage: open <id>\n")
			return false, err
		}
		s.selection.SelectBook(arg)
	case "reload":
		s.load(ctx)
	default:
		_, err = fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
		return false, err
	}
	return false, s.show()
}

func (s *session) load(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	if _, err := s.store.Load(loadCtx); err != nil {
		log.Printf("catalog load failed: %v", err)
	}
}

func (s *session) show() error {
	if !s.store.Loaded() {
		return s.renderer.RenderLoadError(s.out)
	}
	return s.renderer.Render(s.out, view.Compose(s.store, s.selection.State()))
}
