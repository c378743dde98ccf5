// Package library bundles the configuration sheets of one content
// repository: the placeholders sheet, the templates sheet, and the
// library configuration sheet that registers both (and any other
// library type) for authoring tools to discover.
package library

import (
	"context"
	"errors"
	"log/slog"
	"path"

	"github.com/jonwraymond/blocklibrary/docstore"
	"github.com/jonwraymond/blocklibrary/sheet"
)

// Error values for consistent error handling by callers.
var (
	ErrNoClient            = errors.New("library: docstore client required")
	ErrNoRepository        = errors.New("library: org and repo required")
	ErrInvalidRegistration = errors.New("library: title and url required")
)

// Default document locations within a repository.
const (
	DefaultPlaceholdersPath = "/placeholders.json"
	DefaultTemplatesPath    = "/library/templates.json"
	DefaultConfigPath       = "/library/config.json"
	DefaultDocsFolder       = "/library/blocks"
)

// Key fields of the built-in sheets.
const (
	placeholderKey = "key"
	templateKey    = "title"
	registryKey    = "title"
)

// Paths locates a repository's library documents. Zero values select
// the defaults.
type Paths struct {
	// Placeholders is the placeholders sheet document.
	Placeholders string
	// Templates is the templates sheet document.
	Templates string
	// Config is the library configuration sheet registering the
	// library types.
	Config string
	// Docs is the folder holding generated block documentation pages.
	Docs string
}

func (p Paths) withDefaults() Paths {
	if p.Placeholders == "" {
		p.Placeholders = DefaultPlaceholdersPath
	}
	if p.Templates == "" {
		p.Templates = DefaultTemplatesPath
	}
	if p.Config == "" {
		p.Config = DefaultConfigPath
	}
	if p.Docs == "" {
		p.Docs = DefaultDocsFolder
	}
	return p
}

// Options configures a Library for one org/repo.
type Options struct {
	// Docs is the admin API client. Required.
	Docs *docstore.Client

	// Org and Repo identify the content repository. Required.
	Org  string
	Repo string

	// Paths locates the library documents. Zero values select the
	// defaults.
	Paths Paths

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Library is the library facade of one content repository.
type Library struct {
	docs   *docstore.Client
	org    string
	repo   string
	paths  Paths
	logger *slog.Logger

	placeholders *sheet.Store
	templates    *sheet.Store
	config       *sheet.Store
}

// Registration reports the outcome of registering one library type.
type Registration struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Created bool   `json:"created"`
	Count   int    `json:"count"`
}

// New creates the library facade for org/repo.
func New(opts Options) (*Library, error) {
	if opts.Docs == nil {
		return nil, ErrNoClient
	}
	if opts.Org == "" || opts.Repo == "" {
		return nil, ErrNoRepository
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	paths := opts.Paths.withDefaults()

	return &Library{
		docs:         opts.Docs,
		org:          opts.Org,
		repo:         opts.Repo,
		paths:        paths,
		logger:       logger,
		placeholders: sheet.New(opts.Docs, opts.Org, opts.Repo, paths.Placeholders, placeholderKey, sheet.WithLogger(logger)),
		templates:    sheet.New(opts.Docs, opts.Org, opts.Repo, paths.Templates, templateKey, sheet.WithLogger(logger)),
		config:       sheet.New(opts.Docs, opts.Org, opts.Repo, paths.Config, registryKey, sheet.WithLogger(logger)),
	}, nil
}

// Placeholders returns the placeholders sheet store.
func (l *Library) Placeholders() *sheet.Store { return l.placeholders }

// Templates returns the templates sheet store.
func (l *Library) Templates() *sheet.Store { return l.templates }

// Register adds a library-type entry mapping title to the URL of its
// backing sheet. Registering an existing title is a no-op: the stored
// entry is kept and Created reports false.
func (l *Library) Register(ctx context.Context, title, url string) (Registration, error) {
	if title == "" || url == "" {
		return Registration{}, ErrInvalidRegistration
	}

	entries, err := l.config.List(ctx)
	if err != nil {
		return Registration{}, err
	}
	for _, entry := range entries {
		if entry[registryKey] == title {
			l.logger.Debug("library type already registered", "title", title)
			return Registration{
				Title:   title,
				Path:    entry["path"],
				Created: false,
				Count:   len(entries),
			}, nil
		}
	}

	if err := l.config.Upsert(ctx, sheet.Record{registryKey: title, "path": url}); err != nil {
		return Registration{}, err
	}
	l.logger.Info("library type registered", "title", title, "path", url)
	return Registration{
		Title:   title,
		Path:    url,
		Created: true,
		Count:   len(entries) + 1,
	}, nil
}

// Entries returns the registered library types.
func (l *Library) Entries(ctx context.Context) ([]sheet.Record, error) {
	return l.config.List(ctx)
}

// ConfigURL returns the admin source URL of the library configuration
// sheet.
func (l *Library) ConfigURL() string {
	return l.config.URL()
}

// DocPath returns the repository path of a block's generated
// documentation page.
func (l *Library) DocPath(block string) string {
	return path.Join(l.paths.Docs, block) + ".html"
}

// SheetURL renders the admin source URL of a sheet document at
// docPath, as stored in library registration entries.
func (l *Library) SheetURL(docPath string) string {
	return l.docs.SourceURL(l.org, l.repo, docPath)
}
