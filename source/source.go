// Package source abstracts where block code lives.
//
// A Source is a uniform read-only view over a block collection rooted
// either in a local filesystem directory or in a directory of a remote
// Git-hosted repository. File reads are best-effort: a missing file or
// any read error yields absent, never a hard failure. Directory
// listings propagate upstream errors.
//
// # Resolution
//
// Resolve picks a source from Options, first match wins:
//
//  1. Explicit remote: Org and Repo set (Branch defaults to "main",
//     Root to "blocks").
//  2. Explicit local: UseLocal set or LocalPath given.
//  3. Auto-detect: a "blocks" directory exists under the working
//     directory. The local Git remote is parsed best-effort to recover
//     org/repo for display; parse failure is silent.
//  4. Otherwise ErrNoSource, with guidance naming the three ways to
//     supply a source.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonwraymond/blocklibrary/githost"
)

// Defaults for remote sources.
const (
	DefaultBranch = "main"
	DefaultRoot   = "blocks"
)

// ErrNoSource indicates that no content source could be resolved from
// the given options or the environment.
var ErrNoSource = errors.New("no content source")

// Source is a read-only view over a block collection.
type Source interface {
	// FileContent returns the content of the file at relPath (relative
	// to the block root). Best-effort: any error reports absent.
	FileContent(ctx context.Context, relPath string) (string, bool)

	// FileExists reports whether relPath exists. Best-effort.
	FileExists(ctx context.Context, relPath string) bool

	// ListBlocks returns one entry per block directory under the root.
	ListBlocks(ctx context.Context) ([]Entry, error)

	// ListFiles returns the filenames inside one block's directory.
	ListFiles(ctx context.Context, block string) ([]string, error)

	// Info describes the source for display.
	Info() Info
}

// Entry is one block directory in a listing.
type Entry struct {
	Name string `json:"name"`
}

// Info describes a resolved source for display purposes.
type Info struct {
	Kind   string `json:"kind"` // "local" or "remote"
	Org    string `json:"org,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Branch string `json:"branch,omitempty"`
	Root   string `json:"root,omitempty"`
	Path   string `json:"path,omitempty"` // local root directory
}

// String renders the source location in a compact human form.
func (info Info) String() string {
	if info.Kind == "local" {
		if info.Org != "" && info.Repo != "" {
			return fmt.Sprintf("local:%s (%s/%s)", info.Path, info.Org, info.Repo)
		}
		return "local:" + info.Path
	}
	return fmt.Sprintf("remote:%s/%s@%s/%s", info.Org, info.Repo, info.Branch, info.Root)
}

// Options selects a content source. See the package documentation for
// the resolution order.
type Options struct {
	// Org and Repo select an explicit remote source.
	Org  string
	Repo string

	// Branch is the remote branch. Defaults to "main".
	Branch string

	// Root is the directory holding block subdirectories, both for
	// remote sources and beneath WorkDir for auto-detection. Defaults
	// to "blocks".
	Root string

	// UseLocal forces a local source rooted at LocalPath or at the
	// auto-detected blocks directory.
	UseLocal bool

	// LocalPath is an explicit local blocks directory.
	LocalPath string

	// WorkDir is the base for auto-detection. Defaults to the current
	// working directory.
	WorkDir string

	// GitHost backs remote sources. A default client is constructed
	// when nil and a remote source is selected.
	GitHost *githost.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Resolve picks a content source from the given options.
func Resolve(opts Options) (Source, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := opts.Root
	if root == "" {
		root = DefaultRoot
	}
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	// 1. Explicit remote.
	if opts.Org != "" && opts.Repo != "" {
		branch := opts.Branch
		if branch == "" {
			branch = DefaultBranch
		}
		host := opts.GitHost
		if host == nil {
			host = githost.NewClient(githost.Config{Logger: logger})
		}
		logger.Debug("resolved remote source", "org", opts.Org, "repo", opts.Repo, "branch", branch, "root", root)
		return &remoteSource{
			host:   host,
			org:    opts.Org,
			repo:   opts.Repo,
			branch: branch,
			root:   root,
			logger: logger,
		}, nil
	}

	// 2. Explicit local.
	if opts.UseLocal || opts.LocalPath != "" {
		path := opts.LocalPath
		if path == "" {
			path = filepath.Join(workDir, root)
		}
		if !isDir(path) {
			return nil, fmt.Errorf("%w: local blocks directory %q does not exist", ErrNoSource, path)
		}
		org, repo, _ := parseGitRemote(filepath.Dir(path))
		logger.Debug("resolved local source", "path", path)
		return &localSource{root: path, org: org, repo: repo, logger: logger}, nil
	}

	// 3. Auto-detect a blocks directory under the working directory.
	if path := filepath.Join(workDir, root); isDir(path) {
		org, repo, ok := parseGitRemote(workDir)
		if ok {
			logger.Debug("auto-detected local source", "path", path, "org", org, "repo", repo)
		} else {
			logger.Debug("auto-detected local source", "path", path)
		}
		return &localSource{root: path, org: org, repo: repo, logger: logger}, nil
	}

	// 4. Nothing resolvable.
	return nil, fmt.Errorf("%w: supply org+repo for a remote source, use_local/local_path for a local source, or run inside a project with a %q directory", ErrNoSource, root)
}

func isDir(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}
