package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// localSource reads blocks from a filesystem directory.
type localSource struct {
	root   string
	org    string // display only, recovered from the Git remote
	repo   string // display only
	logger *slog.Logger
}

func (s *localSource) FileContent(_ context.Context, relPath string) (string, bool) {
	path, ok := s.resolve(relPath)
	if !ok {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *localSource) FileExists(_ context.Context, relPath string) bool {
	path, ok := s.resolve(relPath)
	if !ok {
		return false
	}
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}

func (s *localSource) ListBlocks(_ context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() || strings.HasPrefix(dirEntry.Name(), ".") {
			continue
		}
		entries = append(entries, Entry{Name: dirEntry.Name()})
	}
	return entries, nil
}

func (s *localSource) ListFiles(_ context.Context, block string) ([]string, error) {
	dirEntries, err := os.ReadDir(filepath.Join(s.root, block))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		names = append(names, dirEntry.Name())
	}
	return names, nil
}

func (s *localSource) Info() Info {
	return Info{Kind: "local", Path: s.root, Org: s.org, Repo: s.repo}
}

// resolve joins relPath under the root. Relative paths never escape
// the root; anything containing a ".." segment reports absent.
func (s *localSource) resolve(relPath string) (string, bool) {
	relPath = filepath.FromSlash(relPath)
	for _, segment := range strings.Split(relPath, string(filepath.Separator)) {
		if segment == ".." {
			return "", false
		}
	}
	return filepath.Join(s.root, relPath), true
}
