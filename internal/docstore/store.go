// Package docstore resolves documents by slug and lists the documents
// directory. Nothing is cached: every call reads the file system again.
package docstore

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"slices"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/storage"
)

// Store coordinates storage reads and document parsing.
type Store struct {
	store  storage.Provider
	parser *parser.Parser
}

// New creates a Store over the given provider.
func New(store storage.Provider, p *parser.Parser) *Store {
	if p == nil {
		p = parser.New("", "")
	}
	return &Store{store: store, parser: p}
}

// Parser returns the parser used for documents.
func (s *Store) Parser() *parser.Parser { return s.parser }

// GetBySlug reads and parses the document named <slug><suffix>. A missing
// file yields apperr.ErrNotFound; other read failures are returned as they
// are. Hidden documents resolve through their file name, marker included.
func (s *Store) GetBySlug(_ context.Context, slug string) (models.Document, error) {
	name := slug + s.parser.Suffix()
	data, err := s.store.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Document{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Document{}, err
	}
	return s.parser.Parse(name, string(data)), nil
}

// ListAll returns every readable document in enumeration order. Entries that
// are not documents, or cannot be read, are skipped.
func (s *Store) ListAll(ctx context.Context) ([]models.Document, error) {
	docs, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.Collect(docs)
	if out == nil {
		out = []models.Document{}
	}
	return out, nil
}

// All enumerates the directory once and returns a lazy sequence over its
// documents. The sequence can be ranged over repeatedly; each pass reads the
// files again.
func (s *Store) All(_ context.Context) (iter.Seq[models.Document], error) {
	entries, err := s.store.List()
	if err != nil {
		return nil, err
	}
	docs := filter(slices.Values(entries), s.isDocument)
	return mapSeq(filterMap(docs, s.read), s.parse), nil
}

type rawFile struct {
	name string
	data []byte
}

// isDocument keeps regular files (symlinks resolved) carrying the suffix.
func (s *Store) isDocument(e fs.DirEntry) bool {
	if !s.parser.IsDocument(e.Name()) {
		return false
	}
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := s.store.Stat(e.Name())
	return err == nil && info.Mode().IsRegular()
}

func (s *Store) read(e fs.DirEntry) (rawFile, bool) {
	data, err := s.store.Read(e.Name())
	if err != nil {
		return rawFile{}, false
	}
	return rawFile{name: e.Name(), data: data}, true
}

func (s *Store) parse(f rawFile) models.Document {
	return s.parser.Parse(f.name, string(f.data))
}

func filter[T any](seq iter.Seq[T], keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}

func filterMap[T, U any](seq iter.Seq[T], fn func(T) (U, bool)) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range seq {
			u, ok := fn(v)
			if ok && !yield(u) {
				return
			}
		}
	}
}

func mapSeq[T, U any](seq iter.Seq[T], fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range seq {
			if !yield(fn(v)) {
				return
			}
		}
	}
}
