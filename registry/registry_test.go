package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/blocklibrary/block"
	"github.com/jonwraymond/blocklibrary/docstore"
	"github.com/jonwraymond/blocklibrary/source"
)

// fakeAdmin is an in-memory admin API and page origin: GET returns a
// stored document or 404, POST stores the multipart "data" part.
type fakeAdmin struct {
	mu   sync.Mutex
	docs map[string]string
}

func (f *fakeAdmin) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			body, ok := f.docs[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			io.WriteString(w, body)
		case http.MethodPost:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			file, _, err := r.FormFile("data")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer file.Close()
			body, _ := io.ReadAll(file)
			f.docs[r.URL.Path] = string(body)
			io.WriteString(w, `{}`)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (f *fakeAdmin) put(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = body
}

func (f *fakeAdmin) get(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.docs[path]
	return body, ok
}

const cardsJS = `/**
 * Cards grid for product teasers.
 */
export default function decorate(blockEl) {}
`

const cardsCSS = `.cards { display: grid; }
.cards.compact { gap: 0; }
.cards .cards-image { width: 100%; }
`

const cardsReadme = "# Cards\n\nArrange teasers in a grid.\n"

const heroCSS = `.hero { padding: 2rem; }
.hero h1 { font-size: 3rem; }
`

// writeBlocks lays out a local blocks directory with a cards block
// (js, css, readme) and a css-only hero block.
func writeBlocks(t *testing.T) string {
	t.Helper()
	blocks := filepath.Join(t.TempDir(), "blocks")
	files := map[string]string{
		"cards/cards.js":  cardsJS,
		"cards/cards.css": cardsCSS,
		"cards/README.md": cardsReadme,
		"hero/hero.css":   heroCSS,
	}
	for name, body := range files {
		path := filepath.Join(blocks, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return blocks
}

// newTestRegistry builds a registry over a local blocks fixture and a
// fake admin API serving both source documents and published pages.
func newTestRegistry(t *testing.T) (*Registry, *fakeAdmin) {
	t.Helper()
	admin := &fakeAdmin{docs: make(map[string]string)}
	server := httptest.NewServer(admin.handler())
	t.Cleanup(server.Close)

	docs := docstore.NewClient(docstore.Config{
		BaseURL:     server.URL,
		PagePattern: server.URL + "/pages/{org}/{repo}",
	})
	reg := New(Config{
		ServerVersion: "test",
		Org:           "acme",
		Repo:          "site",
		LocalPath:     writeBlocks(t),
		Docs:          docs,
	})
	t.Cleanup(func() { _ = reg.Close() })
	return reg, admin
}

// connect wires a client session to a fresh server over in-memory
// transports.
func connect(t *testing.T, reg *Registry) *mcp.ClientSession {
	t.Helper()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx := context.Background()

	serverSession, err := reg.Server().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func call(t *testing.T, session *mcp.ClientSession, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s: %v", tool, err)
	}
	if res.IsError {
		t.Fatalf("CallTool %s: tool error: %s", tool, textOf(res))
	}
	return res
}

func callErr(t *testing.T, session *mcp.ClientSession, tool string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s: %v", tool, err)
	}
	if !res.IsError {
		t.Fatalf("CallTool %s: want tool error, got success", tool)
	}
	return textOf(res)
}

func textOf(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// decode maps a tool result's structured content onto T.
func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshaling structured content: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decoding structured content: %v", err)
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	reg := New(Config{})
	t.Cleanup(func() { _ = reg.Close() })

	if reg.config.ServerName != DefaultServerName {
		t.Errorf("server name = %q, want %q", reg.config.ServerName, DefaultServerName)
	}
	if reg.docs == nil || reg.host == nil || reg.searcher == nil || reg.logger == nil {
		t.Error("expected default clients to be constructed")
	}
}

func TestServer_ToolCatalog(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := []string{
		"list_blocks", "get_block", "analyze_block", "search_blocks", "extract_block_content",
		"generate_block_doc", "save_block_doc", "document_block", "get_document", "save_document",
		"list_placeholders", "set_placeholder", "remove_placeholder", "setup_placeholders",
		"list_templates", "set_template", "remove_template",
		"register_library", "get_library",
	}
	got := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
	if len(res.Tools) != len(want) {
		t.Errorf("registered %d tools, want %d", len(res.Tools), len(want))
	}
}

func TestSourceOptions(t *testing.T) {
	reg := New(Config{
		Org:       "acme",
		Repo:      "site",
		Branch:    "live",
		Root:      "modules",
		LocalPath: "/srv/blocks",
	})
	t.Cleanup(func() { _ = reg.Close() })

	tests := []struct {
		name string
		args SourceArgs
		want source.Options
	}{
		{
			name: "empty selection takes the configured local default",
			args: SourceArgs{},
			want: source.Options{LocalPath: "/srv/blocks", Branch: "live", Root: "modules"},
		},
		{
			name: "explicit remote overrides the local default",
			args: SourceArgs{Org: "other", Repo: "web"},
			want: source.Options{Org: "other", Repo: "web", Branch: "live", Root: "modules"},
		},
		{
			name: "partial remote completed from the configuration",
			args: SourceArgs{Repo: "web"},
			want: source.Options{Org: "acme", Repo: "web", Branch: "live", Root: "modules"},
		},
		{
			name: "explicit local path wins",
			args: SourceArgs{LocalPath: "/elsewhere"},
			want: source.Options{LocalPath: "/elsewhere", Branch: "live", Root: "modules"},
		},
		{
			name: "branch and root pass through",
			args: SourceArgs{Org: "other", Repo: "web", Branch: "dev", Root: "blocks"},
			want: source.Options{Org: "other", Repo: "web", Branch: "dev", Root: "blocks"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.sourceOptions(tt.args)
			got.GitHost = nil
			got.Logger = nil
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sourceOptions(%+v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestListBlocks(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[listBlocksResult](t, call(t, session, "list_blocks", map[string]any{}))

	want := []block.Listing{
		{Name: "cards", HasJS: true, HasCSS: true},
		{Name: "hero", HasCSS: true},
	}
	if out.Count != len(want) || !reflect.DeepEqual(out.Blocks, want) {
		t.Errorf("list_blocks = %+v, want %+v", out.Blocks, want)
	}
	if !strings.HasPrefix(out.Source, "local:") {
		t.Errorf("source = %q, want a local source", out.Source)
	}
}

func TestListBlocks_PerCallOverride(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	other := filepath.Join(t.TempDir(), "blocks")
	if err := os.MkdirAll(filepath.Join(other, "quote"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(other, "quote", "quote.css"), []byte(".quote {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out := decode[listBlocksResult](t, call(t, session, "list_blocks", map[string]any{"local_path": other}))
	if len(out.Blocks) != 1 || out.Blocks[0].Name != "quote" {
		t.Errorf("blocks = %+v, want just quote", out.Blocks)
	}
}

func TestGetBlock(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[getBlockResult](t, call(t, session, "get_block", map[string]any{
		"name":          "cards",
		"render_readme": true,
	}))

	if !out.Exists || !out.HasJS || !out.HasCSS || !out.HasReadme {
		t.Fatalf("presence flags = %+v", out)
	}
	if out.JS != cardsJS || out.CSS != cardsCSS || out.Readme != cardsReadme {
		t.Error("file contents do not match the fixtures")
	}
	if !strings.Contains(out.ReadmeHTML, "<h1>Cards</h1>") {
		t.Errorf("readmeHTML = %q, want rendered heading", out.ReadmeHTML)
	}
}

func TestGetBlock_Absent(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[getBlockResult](t, call(t, session, "get_block", map[string]any{"name": "missing"}))
	if out.Exists {
		t.Error("exists = true for an absent block")
	}
}

func TestAnalyzeBlock(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[block.Analysis](t, call(t, session, "analyze_block", map[string]any{"name": "cards"}))

	if out.Description != "Cards grid for product teasers." {
		t.Errorf("description = %q", out.Description)
	}
	if out.FunctionName != "decorate" {
		t.Errorf("functionName = %q, want decorate", out.FunctionName)
	}
	if !reflect.DeepEqual(out.Variants, []string{"compact"}) {
		t.Errorf("variants = %v, want [compact]", out.Variants)
	}
	if !out.Features.Image || !out.Features.MultiItem {
		t.Errorf("features = %+v, want image and multiItem set", out.Features)
	}
}

func TestSearchBlocks(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[searchBlocksResult](t, call(t, session, "search_blocks", map[string]any{"query": "teasers grid"}))
	if out.Count == 0 || out.Matches[0].Name != "cards" {
		t.Fatalf("matches = %+v, want cards first", out.Matches)
	}

	out = decode[searchBlocksResult](t, call(t, session, "search_blocks", map[string]any{"query": "", "limit": 1}))
	if out.Count != 1 || out.Matches[0].Name != "cards" {
		t.Errorf("empty query matches = %+v, want first block by name", out.Matches)
	}
}

func TestExtractBlockContent(t *testing.T) {
	reg, admin := newTestRegistry(t)
	session := connect(t, reg)

	admin.put("/pages/acme/site/hero", `<div class="hero"><p>Welcome</p></div>`)

	out := decode[extractContentResult](t, call(t, session, "extract_block_content", map[string]any{
		"block": "hero",
		"paths": []string{"/hero"},
	}))
	if !out.Found || out.Path != "/hero" {
		t.Fatalf("found = %v, path = %q", out.Found, out.Path)
	}
	if out.Content[""] != "<p>Welcome</p>" {
		t.Errorf("content = %+v", out.Content)
	}
}

func TestExtractBlockContent_NoInstances(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[extractContentResult](t, call(t, session, "extract_block_content", map[string]any{"block": "hero"}))
	if out.Found {
		t.Error("found = true with no published pages")
	}
	if len(out.Content) != 0 {
		t.Errorf("content = %v, want empty", out.Content)
	}
}

func TestGenerateBlockDoc(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[generateDocResult](t, call(t, session, "generate_block_doc", map[string]any{
		"name":     "quote",
		"variants": []string{"pull"},
		"content":  map[string]string{"pull": "<p>Q</p>"},
	}))

	if !strings.Contains(out.HTML, `<div class="quote pull">`) {
		t.Errorf("html missing variant section:\n%s", out.HTML)
	}
	if !strings.Contains(out.HTML, "<p>Q</p>") {
		t.Errorf("html missing section content:\n%s", out.HTML)
	}
	if !strings.Contains(out.HTML, "Quote block. Variants: pull") {
		t.Errorf("html missing synthesized description:\n%s", out.HTML)
	}
}

func TestSaveBlockDoc(t *testing.T) {
	reg, admin := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[saveBlockDocResult](t, call(t, session, "save_block_doc", map[string]any{
		"name": "cards",
		"html": "<html>doc</html>",
	}))
	if out.Path != "/library/blocks/cards.html" {
		t.Errorf("path = %q", out.Path)
	}
	if out.URL == "" {
		t.Error("url is empty")
	}
	if body, ok := admin.get("/source/acme/site/library/blocks/cards.html"); !ok || body != "<html>doc</html>" {
		t.Errorf("stored doc = %q (ok=%v)", body, ok)
	}
}

func TestDocumentBlock(t *testing.T) {
	reg, admin := newTestRegistry(t)
	session := connect(t, reg)

	admin.put("/pages/acme/site/library/blocks/cards", `<div class="cards"><p>Live</p></div>`)

	out := decode[documentBlockResult](t, call(t, session, "document_block", map[string]any{"block": "cards"}))

	if out.Analysis.Name != "cards" || !reflect.DeepEqual(out.Analysis.Variants, []string{"compact"}) {
		t.Fatalf("analysis = %+v", out.Analysis)
	}
	if !out.Found || out.Page != "/library/blocks/cards" {
		t.Errorf("found = %v, page = %q", out.Found, out.Page)
	}
	if !strings.Contains(out.HTML, `<div class="cards compact">`) {
		t.Errorf("html missing variant section:\n%s", out.HTML)
	}
	if !strings.Contains(out.HTML, "<p>Live</p>") {
		t.Errorf("html missing extracted content:\n%s", out.HTML)
	}
	if !strings.Contains(out.HTML, "Cards grid for product teasers.") {
		t.Errorf("html missing analyzed description:\n%s", out.HTML)
	}
	if !out.Saved || out.Path != "/library/blocks/cards.html" {
		t.Errorf("saved = %v, path = %q", out.Saved, out.Path)
	}
	if body, ok := admin.get("/source/acme/site/library/blocks/cards.html"); !ok || body != out.HTML {
		t.Errorf("stored doc does not match result html (ok=%v)", ok)
	}
}

func TestDocumentBlock_NoSave(t *testing.T) {
	reg, admin := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[documentBlockResult](t, call(t, session, "document_block", map[string]any{
		"block": "cards",
		"save":  false,
	}))
	if out.Saved || out.URL != "" {
		t.Errorf("saved = %v, url = %q, want unsaved", out.Saved, out.URL)
	}
	if out.HTML == "" {
		t.Error("html is empty")
	}
	if _, ok := admin.get("/source/acme/site/library/blocks/cards.html"); ok {
		t.Error("document uploaded despite save=false")
	}
}

func TestDocumentBlock_UnknownBlock(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	msg := callErr(t, session, "document_block", map[string]any{"block": "missing"})
	if !strings.Contains(msg, "not found") {
		t.Errorf("error = %q, want block not found", msg)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	saved := decode[saveDocumentResult](t, call(t, session, "save_document", map[string]any{
		"path":    "/notes.html",
		"content": "<p>n</p>",
	}))
	if saved.URL == "" {
		t.Error("save url is empty")
	}

	out := decode[getDocumentResult](t, call(t, session, "get_document", map[string]any{"path": "/notes.html"}))
	if !out.Exists || out.Content != "<p>n</p>" {
		t.Errorf("get_document = %+v", out)
	}
}

func TestGetDocument_Absent(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[getDocumentResult](t, call(t, session, "get_document", map[string]any{"path": "/nope.html"}))
	if out.Exists {
		t.Error("exists = true for an absent document")
	}
	if out.URL == "" {
		t.Error("url is empty")
	}
}

func TestPlaceholderTools(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	set := decode[upsertRecordResult](t, call(t, session, "set_placeholder", map[string]any{
		"key":   "city",
		"value": "Basel",
	}))
	if set.Record["key"] != "city" || set.Record["value"] != "Basel" {
		t.Errorf("record = %v", set.Record)
	}

	list := decode[sheetListResult](t, call(t, session, "list_placeholders", map[string]any{}))
	if list.Count != 1 || list.Records[0]["key"] != "city" {
		t.Fatalf("records = %+v", list.Records)
	}

	removed := decode[removePlaceholderResult](t, call(t, session, "remove_placeholder", map[string]any{"key": "city"}))
	if !removed.Removed {
		t.Error("removed = false, want true")
	}
	removed = decode[removePlaceholderResult](t, call(t, session, "remove_placeholder", map[string]any{"key": "city"}))
	if removed.Removed {
		t.Error("second removal reported removed = true")
	}
}

func TestSetupPlaceholders(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	out := decode[setupPlaceholdersResult](t, call(t, session, "setup_placeholders", map[string]any{
		"records": []map[string]string{
			{"key": "city", "value": "Basel"},
			{"key": "year", "value": "2026"},
		},
	}))
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}

	list := decode[sheetListResult](t, call(t, session, "list_placeholders", map[string]any{}))
	if list.Count != 2 || list.Records[0]["key"] != "city" || list.Records[1]["key"] != "year" {
		t.Errorf("records = %+v, want city then year", list.Records)
	}
}

func TestTemplateTools(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	set := decode[upsertRecordResult](t, call(t, session, "set_template", map[string]any{
		"title": "Article",
		"url":   "https://example.com/templates/article",
	}))
	if set.Record["title"] != "Article" {
		t.Errorf("record = %v", set.Record)
	}

	list := decode[sheetListResult](t, call(t, session, "list_templates", map[string]any{}))
	if list.Count != 1 || list.Records[0]["url"] != "https://example.com/templates/article" {
		t.Fatalf("records = %+v", list.Records)
	}

	removed := decode[removeTemplateResult](t, call(t, session, "remove_template", map[string]any{"title": "Article"}))
	if !removed.Removed {
		t.Error("removed = false, want true")
	}
}

func TestRegisterLibrary_Idempotent(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	args := map[string]any{
		"title": "Placeholders",
		"url":   "https://example.com/placeholders.json",
	}

	first := decode[registerLibraryResult](t, call(t, session, "register_library", args))
	if !first.Created || first.AlreadyRegistered || first.Count != 1 {
		t.Fatalf("first registration = %+v", first)
	}

	second := decode[registerLibraryResult](t, call(t, session, "register_library", args))
	if second.Created || !second.AlreadyRegistered || second.Count != 1 {
		t.Fatalf("second registration = %+v", second)
	}

	lib := decode[getLibraryResult](t, call(t, session, "get_library", map[string]any{}))
	if lib.Count != 1 || lib.Entries[0]["title"] != "Placeholders" {
		t.Errorf("entries = %+v", lib.Entries)
	}
}

func TestValidationErrors(t *testing.T) {
	reg, _ := newTestRegistry(t)
	session := connect(t, reg)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"invalid analyze name", "analyze_block", map[string]any{"name": "Bad Name"}, "invalid name"},
		{"invalid doc name", "generate_block_doc", map[string]any{"name": "UPPER"}, "invalid name"},
		{"empty doc html", "save_block_doc", map[string]any{"name": "cards", "html": ""}, "html is required"},
		{"empty document path", "get_document", map[string]any{"path": ""}, "path is required"},
		{"empty template url", "set_template", map[string]any{"title": "Article", "url": ""}, "url is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := callErr(t, session, tt.tool, tt.args)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error = %q, want substring %q", msg, tt.want)
			}
		})
	}
}

func TestNoConfiguredDefaults(t *testing.T) {
	admin := &fakeAdmin{docs: make(map[string]string)}
	server := httptest.NewServer(admin.handler())
	t.Cleanup(server.Close)

	reg := New(Config{
		Docs:    docstore.NewClient(docstore.Config{BaseURL: server.URL}),
		WorkDir: t.TempDir(),
	})
	t.Cleanup(func() { _ = reg.Close() })
	session := connect(t, reg)

	if msg := callErr(t, session, "list_placeholders", map[string]any{}); !strings.Contains(msg, "org and repo are required") {
		t.Errorf("list_placeholders error = %q", msg)
	}
	if msg := callErr(t, session, "list_blocks", map[string]any{}); !strings.Contains(msg, "no content source") {
		t.Errorf("list_blocks error = %q", msg)
	}
}
