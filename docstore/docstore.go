// Package docstore is a client for the content-authoring admin API.
//
// Documents are addressed by (kind, organization, repository, path)
// where the path carries the document format as its extension
// (".json" for sheets, ".html" for pages). The client exposes the two
// operations the block library needs against the "source" kind: fetch
// a document and upload a document. It also fetches published page
// renditions from the configurable page origin, which the block
// content extractor scans for live block markup.
//
// Absent documents surface as an *APIError with status 404; callers
// distinguish them with IsNotFound and treat them as negative results
// rather than failures.
package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"
)

// Defaults for the public endpoints. {org} and {repo} in the page
// pattern are substituted per request.
const (
	DefaultBaseURL     = "https://admin.da.live"
	DefaultPagePattern = "https://main--{repo}--{org}.aem.page"
)

// kindSource is the admin API kind for document content. Other kinds
// (version history, move, copy) are not used by this library.
const kindSource = "source"

// maxResponseSize bounds response body reads. Published pages and
// sheets are modest documents; the bound guards against misaddressed
// requests streaming unbounded bodies.
const maxResponseSize int64 = 64 << 20

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the admin API root. Defaults to
	// "https://admin.da.live".
	BaseURL string

	// PagePattern is the published page origin with {org} and {repo}
	// placeholders. Defaults to "https://main--{repo}--{org}.aem.page".
	PagePattern string

	// Token is a bearer token for the admin API. Optional; when empty,
	// requests are sent unauthenticated.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed client for the admin API's source documents and
// the published page origin.
type Client struct {
	baseURL     string
	pagePattern string
	token       string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a client from the given configuration, resolving
// defaults for unset fields.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	pagePattern := config.PagePattern
	if pagePattern == "" {
		pagePattern = DefaultPagePattern
	}
	pagePattern = strings.TrimRight(pagePattern, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     baseURL,
		pagePattern: pagePattern,
		token:       config.Token,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// SourceURL returns the admin API URL for a source document.
func (c *Client) SourceURL(org, repo, docPath string) string {
	return c.docURL(kindSource, org, repo, docPath)
}

// docURL builds an admin API URL from the (kind, org, repo, path)
// address tuple.
func (c *Client) docURL(kind, org, repo, docPath string) string {
	if !strings.HasPrefix(docPath, "/") {
		docPath = "/" + docPath
	}
	return fmt.Sprintf("%s/%s/%s/%s%s", c.baseURL, kind, org, repo, docPath)
}

// PageURL returns the published page URL for a path.
func (c *Client) PageURL(org, repo, pagePath string) string {
	if !strings.HasPrefix(pagePath, "/") {
		pagePath = "/" + pagePath
	}
	origin := strings.NewReplacer("{org}", org, "{repo}", repo).Replace(c.pagePattern)
	return origin + pagePath
}

// FetchSource retrieves a source document. Absent documents yield an
// *APIError matched by IsNotFound.
func (c *Client) FetchSource(ctx context.Context, org, repo, docPath string) (string, error) {
	return c.fetch(ctx, c.SourceURL(org, repo, docPath))
}

// FetchPage retrieves a published page rendition. Absent pages yield
// an *APIError matched by IsNotFound.
func (c *Client) FetchPage(ctx context.Context, org, repo, pagePath string) (string, error) {
	return c.fetch(ctx, c.PageURL(org, repo, pagePath))
}

// SaveSource uploads a document body to the admin API as a multipart
// form with a single "data" part. The part's content type derives from
// the document path's extension. Returns the document's source URL.
func (c *Client) SaveSource(ctx context.Context, org, repo, docPath, body string) (string, error) {
	url := c.SourceURL(org, repo, docPath)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="data"; filename=%q`, path.Base(docPath)))
	header.Set("Content-Type", contentTypeFor(docPath))
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("docstore: building upload form: %w", err)
	}
	if _, err := io.WriteString(part, body); err != nil {
		return "", fmt.Errorf("docstore: building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("docstore: building upload form: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &form)
	if err != nil {
		return "", fmt.Errorf("docstore: creating request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Info("docstore upload", "url", url, "bytes", len(body))

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("docstore: POST %s: %w", url, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("docstore: reading response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", parseAPIError(response.StatusCode, url, responseBody)
	}
	return url, nil
}

// fetch executes a GET and returns the response body as text.
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("docstore: creating request: %w", err)
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("docstore fetch", "url", url)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("docstore: GET %s: %w", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("docstore: reading response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", parseAPIError(response.StatusCode, url, body)
	}
	return string(body), nil
}

// contentTypeFor maps a document path extension to the content type
// sent with uploads.
func contentTypeFor(docPath string) string {
	switch strings.ToLower(path.Ext(docPath)) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	default:
		return "text/plain"
	}
}
