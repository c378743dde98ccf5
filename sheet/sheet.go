// Package sheet provides keyed-record CRUD over a single remote JSON
// document.
//
// A sheet is one admin-API document holding an identity marker
// (":type": "sheet"), row counters, and an ordered record array. Every
// mutating operation reads the whole document, mutates the record list
// in memory, and rewrites the whole document. There is no locking and
// no optimistic concurrency: concurrent writers to the same sheet race
// and the last writer wins.
//
// Records are flat string-to-string maps. Uniqueness is enforced by
// the key field the store is constructed with: upsert replaces the
// record sharing the key value at its original position rather than
// appending a duplicate.
package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonwraymond/blocklibrary/docstore"
)

// Error values for consistent error handling by callers.
var (
	ErrMissingKey = errors.New("record missing key field")
	ErrEmptyKey   = errors.New("empty key value")
)

// Record is one sheet row: a flat mapping of named fields.
type Record = map[string]string

// document is the wire shape of a sheet.
type document struct {
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Data   []Record `json:"data"`
	Type   string   `json:":type"`
}

// Store binds keyed-record operations to one sheet document.
type Store struct {
	docs   *docstore.Client
	org    string
	repo   string
	path   string
	key    string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for structured logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for the sheet document at path in org/repo.
// keyField names the record field that enforces uniqueness.
func New(docs *docstore.Client, org, repo, path, keyField string, opts ...Option) *Store {
	s := &Store{
		docs:   docs,
		org:    org,
		repo:   repo,
		path:   path,
		key:    keyField,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the admin source URL of the backing document.
func (s *Store) URL() string {
	return s.docs.SourceURL(s.org, s.repo, s.path)
}

// List returns the stored records unchanged. An absent document is an
// empty sheet, not an error.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Upsert adds rec to the sheet. A record sharing rec's key value is
// replaced at its original position; otherwise rec is appended.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if rec[s.key] == "" {
		return fmt.Errorf("%w: %q", ErrMissingKey, s.key)
	}
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	upsert(&doc, s.key, rec)
	return s.save(ctx, doc)
}

// Remove deletes the first record whose key field equals keyValue and
// reports whether a record was actually removed. The document is only
// rewritten when a record was found.
func (s *Store) Remove(ctx context.Context, keyValue string) (bool, error) {
	if keyValue == "" {
		return false, ErrEmptyKey
	}
	doc, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for i, rec := range doc.Data {
		if rec[s.key] == keyValue {
			doc.Data = append(doc.Data[:i], doc.Data[i+1:]...)
			if err := s.save(ctx, doc); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Setup upserts each record in input order with a single document
// rewrite at the end. Returns the resulting record count.
func (s *Store) Setup(ctx context.Context, recs []Record) (int, error) {
	for _, rec := range recs {
		if rec[s.key] == "" {
			return 0, fmt.Errorf("%w: %q", ErrMissingKey, s.key)
		}
	}
	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		upsert(&doc, s.key, rec)
	}
	if err := s.save(ctx, doc); err != nil {
		return 0, err
	}
	return len(doc.Data), nil
}

// upsert replaces the record sharing rec's key value in place, else
// appends rec.
func upsert(doc *document, key string, rec Record) {
	for i, existing := range doc.Data {
		if existing[key] == rec[key] {
			doc.Data[i] = rec
			return
		}
	}
	doc.Data = append(doc.Data, rec)
}

// load reads the current sheet document. Absent documents yield an
// empty sheet.
func (s *Store) load(ctx context.Context) (document, error) {
	doc := document{Data: []Record{}, Type: "sheet"}
	body, err := s.docs.FetchSource(ctx, s.org, s.repo, s.path)
	if err != nil {
		if docstore.IsNotFound(err) {
			return doc, nil
		}
		return doc, err
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return doc, fmt.Errorf("sheet: parsing %s: %w", s.path, err)
	}
	if doc.Data == nil {
		doc.Data = []Record{}
	}
	return doc, nil
}

// save rewrites the whole sheet document with refreshed counters.
func (s *Store) save(ctx context.Context, doc document) error {
	doc.Total = len(doc.Data)
	doc.Limit = len(doc.Data)
	doc.Offset = 0
	doc.Type = "sheet"

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sheet: encoding %s: %w", s.path, err)
	}
	if _, err := s.docs.SaveSource(ctx, s.org, s.repo, s.path, string(body)); err != nil {
		return err
	}
	s.logger.Debug("sheet saved", "path", s.path, "records", len(doc.Data))
	return nil
}
