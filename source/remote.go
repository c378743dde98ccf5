package source

import (
	"context"
	"log/slog"
	"path"

	"github.com/jonwraymond/blocklibrary/githost"
)

// remoteSource reads blocks from a Git-hosted repository directory.
type remoteSource struct {
	host   *githost.Client
	org    string
	repo   string
	branch string
	root   string
	logger *slog.Logger
}

func (s *remoteSource) FileContent(ctx context.Context, relPath string) (string, bool) {
	content, err := s.host.FileContent(ctx, s.org, s.repo, s.branch, path.Join(s.root, relPath))
	if err != nil {
		if !githost.IsNotFound(err) {
			s.logger.Debug("remote read failed", "path", relPath, "error", err)
		}
		return "", false
	}
	return content, true
}

func (s *remoteSource) FileExists(ctx context.Context, relPath string) bool {
	_, ok := s.FileContent(ctx, relPath)
	return ok
}

func (s *remoteSource) ListBlocks(ctx context.Context) ([]Entry, error) {
	dirEntries, err := s.host.ListDir(ctx, s.org, s.repo, s.branch, s.root)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.Type != "dir" {
			continue
		}
		entries = append(entries, Entry{Name: dirEntry.Name})
	}
	return entries, nil
}

func (s *remoteSource) ListFiles(ctx context.Context, block string) ([]string, error) {
	dirEntries, err := s.host.ListDir(ctx, s.org, s.repo, s.branch, path.Join(s.root, block))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.Type != "file" {
			continue
		}
		names = append(names, dirEntry.Name)
	}
	return names, nil
}

func (s *remoteSource) Info() Info {
	return Info{Kind: "remote", Org: s.org, Repo: s.repo, Branch: s.branch, Root: s.root}
}
