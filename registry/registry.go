package registry

import (
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/blocklibrary/docstore"
	"github.com/jonwraymond/blocklibrary/githost"
	"github.com/jonwraymond/blocklibrary/library"
	"github.com/jonwraymond/blocklibrary/search"
	"github.com/jonwraymond/blocklibrary/source"
)

// DefaultServerName identifies the MCP server when Config leaves the
// name unset.
const DefaultServerName = "blocklibrary"

// Config configures a Registry.
type Config struct {
	// ServerName and ServerVersion identify this server to MCP clients.
	// ServerName defaults to "blocklibrary".
	ServerName    string
	ServerVersion string

	// Org and Repo are the default content organization and repository.
	// Tool calls that carry their own selection override them.
	Org  string
	Repo string

	// Branch and Root are the default remote branch and block root
	// directory. Empty values resolve inside the source package.
	Branch string
	Root   string

	// UseLocal and LocalPath select a local default source.
	UseLocal  bool
	LocalPath string

	// WorkDir is the base directory for local source auto-detection.
	// Defaults to the current working directory.
	WorkDir string

	// Paths overrides the library document locations.
	Paths library.Paths

	// Docs is the admin API client. A default client is constructed
	// when nil.
	Docs *docstore.Client

	// GitHost backs remote sources. A default client is constructed
	// when nil.
	GitHost *githost.Client

	// Search tunes the block searcher.
	Search search.BM25Config

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Registry owns the shared clients and the search index behind the
// tool catalog. One Registry can back any number of servers.
type Registry struct {
	config   Config
	docs     *docstore.Client
	host     *githost.Client
	searcher *search.BM25Searcher
	logger   *slog.Logger
}

// New creates a Registry with the given config, resolving defaults for
// unset fields.
func New(config Config) *Registry {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.ServerName == "" {
		config.ServerName = DefaultServerName
	}
	docs := config.Docs
	if docs == nil {
		docs = docstore.NewClient(docstore.Config{Logger: logger})
	}
	host := config.GitHost
	if host == nil {
		host = githost.NewClient(githost.Config{Logger: logger})
	}

	return &Registry{
		config:   config,
		docs:     docs,
		host:     host,
		searcher: search.NewBM25Searcher(config.Search),
		logger:   logger,
	}
}

// Server returns a new MCP server with the full tool catalog
// registered. Servers share the registry's clients and search index,
// so each call is cheap.
func (r *Registry) Server() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerName,
		Version: r.config.ServerVersion,
	}, nil)

	r.registerBlockTools(server)
	r.registerDocumentTools(server)
	r.registerSheetTools(server)
	r.registerLibraryTools(server)

	return server
}

// Close releases the search index. The registry stays usable; the
// next search rebuilds.
func (r *Registry) Close() error {
	return r.searcher.Close()
}

// SourceArgs is the per-call content source selection shared by block
// tools. All fields are optional; a call that sets none uses the
// server's configured defaults.
type SourceArgs struct {
	Org       string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo      string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Branch    string `json:"branch,omitempty" jsonschema:"remote branch, default main"`
	Root      string `json:"root,omitempty" jsonschema:"directory holding block subdirectories, default blocks"`
	UseLocal  bool   `json:"use_local,omitempty" jsonschema:"read blocks from the local filesystem instead of a remote repository"`
	LocalPath string `json:"local_path,omitempty" jsonschema:"explicit local blocks directory (implies use_local)"`
}

// sourceOptions maps a per-call selection onto resolver options. An
// explicit local selection wins over configured remote defaults; a
// partial org/repo selection is completed from the configuration; an
// empty selection takes the configured defaults wholesale.
func (r *Registry) sourceOptions(args SourceArgs) source.Options {
	opts := source.Options{
		Org:       args.Org,
		Repo:      args.Repo,
		Branch:    args.Branch,
		Root:      args.Root,
		UseLocal:  args.UseLocal,
		LocalPath: args.LocalPath,
		WorkDir:   r.config.WorkDir,
		GitHost:   r.host,
		Logger:    r.logger,
	}
	if opts.Branch == "" {
		opts.Branch = r.config.Branch
	}
	if opts.Root == "" {
		opts.Root = r.config.Root
	}
	if opts.UseLocal || opts.LocalPath != "" {
		return opts
	}
	if opts.Org == "" && opts.Repo == "" {
		if r.config.UseLocal || r.config.LocalPath != "" {
			opts.UseLocal = r.config.UseLocal
			opts.LocalPath = r.config.LocalPath
			return opts
		}
		opts.Org = r.config.Org
		opts.Repo = r.config.Repo
		return opts
	}
	if opts.Org == "" {
		opts.Org = r.config.Org
	}
	if opts.Repo == "" {
		opts.Repo = r.config.Repo
	}
	return opts
}

// resolveSource resolves the content source for one call.
func (r *Registry) resolveSource(args SourceArgs) (source.Source, error) {
	return source.Resolve(r.sourceOptions(args))
}

// orgRepo resolves the document address for admin API tools, falling
// back to the configured defaults.
func (r *Registry) orgRepo(org, repo string) (string, string, error) {
	if org == "" {
		org = r.config.Org
	}
	if repo == "" {
		repo = r.config.Repo
	}
	if org == "" || repo == "" {
		return "", "", fmt.Errorf("%w: org and repo are required (pass them or configure server defaults)", ErrInvalidArgument)
	}
	return org, repo, nil
}

// libraryFor resolves org/repo and builds the library facade with the
// configured document paths.
func (r *Registry) libraryFor(org, repo string) (*library.Library, error) {
	org, repo, err := r.orgRepo(org, repo)
	if err != nil {
		return nil, err
	}
	return library.New(library.Options{
		Docs:   r.docs,
		Org:    org,
		Repo:   repo,
		Paths:  r.config.Paths,
		Logger: r.logger,
	})
}
