package registry

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/blocklibrary/sheet"
)

func (r *Registry) registerSheetTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_placeholders",
		Description: "List the placeholder records of a repository.",
		Annotations: &mcp.ToolAnnotations{Title: "List placeholders", ReadOnlyHint: true},
	}, r.listPlaceholders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_placeholder",
		Description: "Add or update one placeholder. An existing record with the same key is replaced in place.",
		Annotations: &mcp.ToolAnnotations{Title: "Set placeholder", IdempotentHint: true},
	}, r.setPlaceholder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_placeholder",
		Description: "Remove one placeholder by key. Reports removed=false when the key is absent.",
		Annotations: &mcp.ToolAnnotations{Title: "Remove placeholder"},
	}, r.removePlaceholder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "setup_placeholders",
		Description: "Seed the placeholders sheet with a batch of records in one rewrite.",
		Annotations: &mcp.ToolAnnotations{Title: "Set up placeholders", IdempotentHint: true},
	}, r.setupPlaceholders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List the template records of a repository.",
		Annotations: &mcp.ToolAnnotations{Title: "List templates", ReadOnlyHint: true},
	}, r.listTemplates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_template",
		Description: "Add or update one template. An existing record with the same title is replaced in place.",
		Annotations: &mcp.ToolAnnotations{Title: "Set template", IdempotentHint: true},
	}, r.setTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_template",
		Description: "Remove one template by title. Reports removed=false when the title is absent.",
		Annotations: &mcp.ToolAnnotations{Title: "Remove template"},
	}, r.removeTemplate)
}

// sheetListResult is the shared shape of the sheet listing tools.
type sheetListResult struct {
	URL     string         `json:"url"`
	Count   int            `json:"count"`
	Records []sheet.Record `json:"records"`
}

// upsertRecordResult reports a stored record and the sheet holding it.
type upsertRecordResult struct {
	URL    string       `json:"url"`
	Record sheet.Record `json:"record"`
}

type listPlaceholdersArgs struct {
	Org  string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
}

func (r *Registry) listPlaceholders(ctx context.Context, req *mcp.CallToolRequest, args listPlaceholdersArgs) (*mcp.CallToolResult, sheetListResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, sheetListResult{}, err
	}
	store := lib.Placeholders()
	records, err := store.List(ctx)
	if err != nil {
		return nil, sheetListResult{}, err
	}
	return nil, sheetListResult{URL: store.URL(), Count: len(records), Records: records}, nil
}

type setPlaceholderArgs struct {
	Org   string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo  string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Key   string `json:"key" jsonschema:"placeholder key"`
	Value string `json:"value" jsonschema:"replacement text"`
}

func (r *Registry) setPlaceholder(ctx context.Context, req *mcp.CallToolRequest, args setPlaceholderArgs) (*mcp.CallToolResult, upsertRecordResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, upsertRecordResult{}, err
	}
	store := lib.Placeholders()
	rec := sheet.Record{"key": args.Key, "value": args.Value}
	if err := store.Upsert(ctx, rec); err != nil {
		return nil, upsertRecordResult{}, err
	}
	return nil, upsertRecordResult{URL: store.URL(), Record: rec}, nil
}

type removePlaceholderArgs struct {
	Org  string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Key  string `json:"key" jsonschema:"placeholder key"`
}

type removePlaceholderResult struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

func (r *Registry) removePlaceholder(ctx context.Context, req *mcp.CallToolRequest, args removePlaceholderArgs) (*mcp.CallToolResult, removePlaceholderResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, removePlaceholderResult{}, err
	}
	removed, err := lib.Placeholders().Remove(ctx, args.Key)
	if err != nil {
		return nil, removePlaceholderResult{}, err
	}
	return nil, removePlaceholderResult{Key: args.Key, Removed: removed}, nil
}

type setupPlaceholdersArgs struct {
	Org     string         `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo    string         `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Records []sheet.Record `json:"records" jsonschema:"placeholder records, each with key and value fields; applied in order"`
}

type setupPlaceholdersResult struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

func (r *Registry) setupPlaceholders(ctx context.Context, req *mcp.CallToolRequest, args setupPlaceholdersArgs) (*mcp.CallToolResult, setupPlaceholdersResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, setupPlaceholdersResult{}, err
	}
	store := lib.Placeholders()
	count, err := store.Setup(ctx, args.Records)
	if err != nil {
		return nil, setupPlaceholdersResult{}, err
	}
	return nil, setupPlaceholdersResult{URL: store.URL(), Count: count}, nil
}

type listTemplatesArgs struct {
	Org  string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
}

func (r *Registry) listTemplates(ctx context.Context, req *mcp.CallToolRequest, args listTemplatesArgs) (*mcp.CallToolResult, sheetListResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, sheetListResult{}, err
	}
	store := lib.Templates()
	records, err := store.List(ctx)
	if err != nil {
		return nil, sheetListResult{}, err
	}
	return nil, sheetListResult{URL: store.URL(), Count: len(records), Records: records}, nil
}

type setTemplateArgs struct {
	Org   string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo  string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Title string `json:"title" jsonschema:"template display name"`
	URL   string `json:"url" jsonschema:"URL of the template page"`
}

func (r *Registry) setTemplate(ctx context.Context, req *mcp.CallToolRequest, args setTemplateArgs) (*mcp.CallToolResult, upsertRecordResult, error) {
	if args.URL == "" {
		return nil, upsertRecordResult{}, fmt.Errorf("%w: url is required", ErrInvalidArgument)
	}
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, upsertRecordResult{}, err
	}
	store := lib.Templates()
	rec := sheet.Record{"title": args.Title, "url": args.URL}
	if err := store.Upsert(ctx, rec); err != nil {
		return nil, upsertRecordResult{}, err
	}
	return nil, upsertRecordResult{URL: store.URL(), Record: rec}, nil
}

type removeTemplateArgs struct {
	Org   string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo  string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Title string `json:"title" jsonschema:"template display name"`
}

type removeTemplateResult struct {
	Title   string `json:"title"`
	Removed bool   `json:"removed"`
}

func (r *Registry) removeTemplate(ctx context.Context, req *mcp.CallToolRequest, args removeTemplateArgs) (*mcp.CallToolResult, removeTemplateResult, error) {
	lib, err := r.libraryFor(args.Org, args.Repo)
	if err != nil {
		return nil, removeTemplateResult{}, err
	}
	removed, err := lib.Templates().Remove(ctx, args.Title)
	if err != nil {
		return nil, removeTemplateResult{}, err
	}
	return nil, removeTemplateResult{Title: args.Title, Removed: removed}, nil
}
