package source

import (
	"os"
	"path/filepath"
	"strings"
)

// parseGitRemote recovers (org, repo) from the origin remote URL in
// dir/.git/config. Best-effort: a missing file, a missing origin
// remote, or an unparseable URL reports ok == false and never errors.
func parseGitRemote(dir string) (org, repo string, ok bool) {
	data, err := os.ReadFile(filepath.Join(dir, ".git", "config"))
	if err != nil {
		return "", "", false
	}

	inOrigin := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") {
			inOrigin = line == `[remote "origin"]`
			continue
		}
		if !inOrigin || !strings.HasPrefix(line, "url") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		return parseRemoteURL(strings.TrimSpace(value))
	}
	return "", "", false
}

// parseRemoteURL extracts (org, repo) from an https, ssh, or scp-style
// Git remote URL.
func parseRemoteURL(url string) (org, repo string, ok bool) {
	var path string
	switch {
	case strings.Contains(url, "://"):
		// https://host/org/repo(.git) or ssh://git@host/org/repo(.git)
		_, rest, _ := strings.Cut(url, "://")
		_, path, ok = strings.Cut(rest, "/")
		if !ok {
			return "", "", false
		}
	case strings.Contains(url, "@") && strings.Contains(url, ":"):
		// git@host:org/repo(.git)
		_, path, _ = strings.Cut(url, ":")
	default:
		return "", "", false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", false
	}
	return segments[0], segments[1], true
}
