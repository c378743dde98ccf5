// Package githost is a read-only client for a GitHub-style REST API.
//
// The block library only ever reads from the hosting service: file
// content at a path and branch, and directory listings at a path and
// branch. Both map onto the repository contents endpoint. Writing to
// the hosting service is out of scope.
//
// A token is optional; anonymous requests work against public
// repositories and the client simply omits the Authorization header
// when no token is configured.
package githost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// apiVersion pins the REST API version header so behavior stays stable
// as the hosting service evolves its API.
const apiVersion = "2022-11-28"

// defaultBaseURL is the base URL for the public GitHub API.
const defaultBaseURL = "https://api.github.com"

// maxResponseSize bounds response body reads. Block sources are small
// text files; anything larger indicates a misaddressed request.
const maxResponseSize int64 = 16 << 20

// Accept media types for the contents endpoint. The raw type returns
// file bodies verbatim; the object type returns JSON metadata (and, for
// directories, an entry array).
const (
	acceptRaw  = "application/vnd.github.raw+json"
	acceptJSON = "application/vnd.github+json"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// "https://api.github.com".
	BaseURL string

	// Token is a personal access token. Optional; when empty, requests
	// are sent unauthenticated.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed client for the read-only slice of a GitHub-style
// REST API used by the block library.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Entry describes one item in a directory listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int64  `json:"size"`
}

// NewClient creates a client from the given configuration, resolving
// defaults for unset fields.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FileContent returns the raw content of the file at path on the given
// branch. A 404 response surfaces as an *APIError matched by IsNotFound.
func (c *Client) FileContent(ctx context.Context, org, repo, branch, path string) (string, error) {
	body, err := c.get(ctx, c.contentsPath(org, repo, branch, path), acceptRaw)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListDir returns the entries of the directory at path on the given
// branch. Listing a file path instead of a directory yields an error
// because the endpoint returns a single object rather than an array.
func (c *Client) ListDir(ctx context.Context, org, repo, branch, path string) ([]Entry, error) {
	body, err := c.get(ctx, c.contentsPath(org, repo, branch, path), acceptJSON)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("githost: %s is not a directory listing: %w", path, err)
	}
	return entries, nil
}

// contentsPath builds the repository contents endpoint path. The ref
// query parameter selects the branch.
func (c *Client) contentsPath(org, repo, branch, path string) string {
	path = strings.TrimPrefix(path, "/")
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", org, repo, path)
	if branch != "" {
		endpoint += "?ref=" + branch
	}
	return endpoint
}

// get executes an authenticated GET and returns the response body. On
// non-2xx responses it returns an *APIError carrying the status code.
func (c *Client) get(ctx context.Context, path, accept string) ([]byte, error) {
	url := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("githost: creating request: %w", err)
	}
	request.Header.Set("Accept", accept)
	request.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("githost request", "url", url)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("githost: GET %s: %w", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("githost: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseAPIError(response.StatusCode, url, body)
	}
	return body, nil
}
