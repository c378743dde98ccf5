package registry

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/blocklibrary/sheet"
)

func (r *Registry) registerLibraryTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "register_library",
		Description: "Register a library type (e.g. Placeholders) with the URL of its backing sheet. Re-registering an existing title is a no-op.",
		Annotations: &mcp.ToolAnnotations{Title: "Register library", IdempotentHint: true},
	}, r.registerLibrary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_library",
		Description: "List the registered library types and the sheets backing them.",
		Annotations: &mcp.ToolAnnotations{Title: "Get library", ReadOnlyHint: true},
	}, r.getLibrary)
}

type registerLibraryArgs struct {
	Org   string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo  string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Title string `json:"title" jsonschema:"library type display name, e.g. Placeholders"`
	URL   string `json:"url" jsonschema:"URL of the sheet backing this library type"`
}

type registerLibraryResult struct {
	Title             string `json:"title"`
	Path              string `json:"path"`
	Created           bool   `json:"created"`
	AlreadyRegistered bool   `json:"alreadyRegistered"`
	Count             int    `json:"count"`
}

func (r *Registry) registerLibrary(ctx context.Context, req *mcp.CallToolRequest, args registerLibraryArgs) (*mcp.CallToolResult, registerLibraryResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, registerLibraryResult{}, err
	}
	reg, err := lib.Register(ctx, args.Title, args.URL)
	if err != nil {
		return nil, registerLibraryResult{}, err
	}
	return nil, registerLibraryResult{
		Title:             reg.Title,
		Path:              reg.Path,
		Created:           reg.Created,
		AlreadyRegistered: !reg.Created,
		Count:             reg.Count,
	}, nil
}

type getLibraryArgs struct {
	Org  string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
}

type getLibraryResult struct {
	URL     string         `json:"url"`
	Count   int            `json:"count"`
	Entries []sheet.Record `json:"entries"`
}

func (r *Registry) getLibrary(ctx context.Context, req *mcp.CallToolRequest, args getLibraryArgs) (*mcp.CallToolResult, getLibraryResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, getLibraryResult{}, err
	}
	entries, err := lib.Entries(ctx)
	if err != nil {
		return nil, getLibraryResult{}, err
	}
	return nil, getLibraryResult{URL: lib.ConfigURL(), Count: len(entries), Entries: entries}, nil
}
