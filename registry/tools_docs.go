package registry

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/blocklibrary/block"
	"github.com/jonwraymond/blocklibrary/docgen"
	"github.com/jonwraymond/blocklibrary/docstore"
)

func (r *Registry) registerDocumentTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_block_doc",
		Description: "Generate a documentation page for a block from its name, variants, features, and example content. Pure; nothing is uploaded.",
		Annotations: &mcp.ToolAnnotations{Title: "Generate block doc", ReadOnlyHint: true, IdempotentHint: true},
	}, r.generateBlockDoc)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_block_doc",
		Description: "Upload a block documentation page to the library docs folder.",
		Annotations: &mcp.ToolAnnotations{Title: "Save block doc", IdempotentHint: true},
	}, r.saveBlockDoc)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "document_block",
		Description: "Document a block end to end: analyze its code, harvest live example content from published pages, generate the page, and upload it.",
		Annotations: &mcp.ToolAnnotations{Title: "Document block", IdempotentHint: true},
	}, r.documentBlock)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch a source document from the admin API. Absent documents report exists=false.",
		Annotations: &mcp.ToolAnnotations{Title: "Get document", ReadOnlyHint: true},
	}, r.getDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_document",
		Description: "Upload a source document to the admin API; the path extension picks the format (.html page, .json sheet).",
		Annotations: &mcp.ToolAnnotations{Title: "Save document", IdempotentHint: true},
	}, r.saveDocument)
}

type generateDocArgs struct {
	Name        string            `json:"name" jsonschema:"block name"`
	Description string            `json:"description,omitempty" jsonschema:"explicit description (synthesized from features and variants when empty)"`
	Variants    []string          `json:"variants,omitempty" jsonschema:"variant names, one documentation section each"`
	Features    *block.Features   `json:"features,omitempty" jsonschema:"structure flags used to synthesize the description"`
	Content     map[string]string `json:"content,omitempty" jsonschema:"variant to example inner HTML; empty key is the base variant"`
}

type generateDocResult struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

func (r *Registry) generateBlockDoc(ctx context.Context, req *mcp.CallToolRequest, args generateDocArgs) (*mcp.CallToolResult, generateDocResult, error) {
	if err := block.ValidateName(args.Name); err != nil {
		return nil, generateDocResult{}, err
	}
	in := docgen.Input{
		Name:        args.Name,
		Description: args.Description,
		Variants:    args.Variants,
		Content:     args.Content,
	}
	if args.Features != nil {
		in.Features = *args.Features
	}
	return nil, generateDocResult{Name: args.Name, HTML: docgen.Generate(in)}, nil
}

type saveBlockDocArgs struct {
	Org  string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Name string `json:"name" jsonschema:"block name"`
	HTML string `json:"html" jsonschema:"documentation page body to upload"`
}

type saveBlockDocResult struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (r *Registry) saveBlockDoc(ctx context.Context, req *mcp.CallToolRequest, args saveBlockDocArgs) (*mcp.CallToolResult, saveBlockDocResult, error) {
	if err := block.ValidateName(args.Name); err != nil {
		return nil, saveBlockDocResult{}, err
	}
	if args.HTML == "" {
		return nil, saveBlockDocResult{}, fmt.Errorf("%w: html is required", ErrInvalidArgument)
	}
	org, repo, err := r.orgRepo(args.Org, args.Repo)
	if err != nil {
		return nil, saveBlockDocResult{}, err
	}
	lib, err := r.libraryFor(org, repo)
	if err != nil {
		return nil, saveBlockDocResult{}, err
	}
	docPath := lib.DocPath(args.Name)
	url, err := r.docs.SaveSource(ctx, org, repo, docPath, args.HTML)
	if err != nil {
		return nil, saveBlockDocResult{}, err
	}
	return nil, saveBlockDocResult{Name: args.Name, Path: docPath, URL: url}, nil
}

type documentBlockArgs struct {
	SourceArgs
	Block string   `json:"block" jsonschema:"block name"`
	Paths []string `json:"paths,omitempty" jsonschema:"published page paths scanned for live example content"`
	Save  *bool    `json:"save,omitempty" jsonschema:"upload the generated page to the library docs folder (default true)"`
}

type documentBlockResult struct {
	Analysis block.Analysis `json:"analysis"`
	Found    bool           `json:"found"`
	Page     string         `json:"page,omitempty"`
	HTML     string         `json:"html"`
	Saved    bool           `json:"saved"`
	Path     string         `json:"path,omitempty"`
	URL      string         `json:"url,omitempty"`
}

func (r *Registry) documentBlock(ctx context.Context, req *mcp.CallToolRequest, args documentBlockArgs) (*mcp.CallToolResult, documentBlockResult, error) {
	src, err := r.resolveSource(args.SourceArgs)
	if err != nil {
		return nil, documentBlockResult{}, err
	}
	analysis, err := block.Analyze(ctx, src, args.Block)
	if err != nil {
		return nil, documentBlockResult{}, err
	}
	if !analysis.HasJS && !analysis.HasCSS {
		return nil, documentBlockResult{}, fmt.Errorf("block %q not found in %s", args.Block, src.Info())
	}

	// The published-page scan and the upload both address org/repo;
	// a local source can still supply one via its parsed Git remote.
	org, repo := args.Org, args.Repo
	if org == "" {
		org = r.config.Org
	}
	if repo == "" {
		repo = r.config.Repo
	}
	if org == "" || repo == "" {
		info := src.Info()
		if org == "" {
			org = info.Org
		}
		if repo == "" {
			repo = info.Repo
		}
	}

	out := documentBlockResult{Analysis: analysis}
	content := map[string]string{}
	if org != "" && repo != "" {
		if found, page, ok := block.FindContent(ctx, r.docs, org, repo, args.Block, args.Paths...); ok {
			content = found
			out.Found = true
			out.Page = page
		}
	}

	out.HTML = docgen.Generate(docgen.Input{
		Name:        args.Block,
		Description: analysis.Description,
		Variants:    analysis.Variants,
		Features:    analysis.Features,
		Content:     content,
	})

	if args.Save != nil && !*args.Save {
		return nil, out, nil
	}
	if org == "" || repo == "" {
		return nil, documentBlockResult{}, fmt.Errorf("%w: saving requires org and repo (pass them, configure defaults, or set save=false)", ErrInvalidArgument)
	}
	lib, err := r.libraryFor(org, repo)
	if err != nil {
		return nil, documentBlockResult{}, err
	}
	docPath := lib.DocPath(args.Block)
	url, err := r.docs.SaveSource(ctx, org, repo, docPath, out.HTML)
	if err != nil {
		return nil, documentBlockResult{}, err
	}
	out.Saved = true
	out.Path = docPath
	out.URL = url
	r.logger.Info("block documented", "block", args.Block, "path", docPath, "content_found", out.Found)
	return nil, out, nil
}

type getDocumentArgs struct {
	Org  string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Path string `json:"path" jsonschema:"document path with format extension (.html page or .json sheet)"`
}

type getDocumentResult struct {
	Path    string `json:"path"`
	URL     string `json:"url"`
	Exists  bool   `json:"exists"`
	Content string `json:"content,omitempty"`
}

func (r *Registry) getDocument(ctx context.Context, req *mcp.CallToolRequest, args getDocumentArgs) (*mcp.CallToolResult, getDocumentResult, error) {
	if args.Path == "" {
		return nil, getDocumentResult{}, fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}
	org, repo, err := r.orgRepo(args.Org, args.Repo)
	if err != nil {
		return nil, getDocumentResult{}, err
	}
	out := getDocumentResult{
		Path: args.Path,
		URL:  r.docs.SourceURL(org, repo, args.Path),
	}
	body, err := r.docs.FetchSource(ctx, org, repo, args.Path)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, out, nil
		}
		return nil, getDocumentResult{}, err
	}
	out.Exists = true
	out.Content = body
	return nil, out, nil
}

type saveDocumentArgs struct {
	Org     string `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo    string `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Path    string `json:"path" jsonschema:"document path with format extension (.html page or .json sheet)"`
	Content string `json:"content" jsonschema:"document body to upload"`
}

type saveDocumentResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (r *Registry) saveDocument(ctx context.Context, req *mcp.CallToolRequest, args saveDocumentArgs) (*mcp.CallToolResult, saveDocumentResult, error) {
	if args.Path == "" {
		return nil, saveDocumentResult{}, fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}
	org, repo, err := r.orgRepo(args.Org, args.Repo)
	if err != nil {
		return nil, saveDocumentResult{}, err
	}
	url, err := r.docs.SaveSource(ctx, org, repo, args.Path, args.Content)
	if err != nil {
		return nil, saveDocumentResult{}, err
	}
	return nil, saveDocumentResult{Path: args.Path, URL: url}, nil
}
