package registry

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/blocklibrary/block"
	"github.com/jonwraymond/blocklibrary/docgen"
	"github.com/jonwraymond/blocklibrary/search"
	"github.com/jonwraymond/blocklibrary/source"
)

// defaultSearchLimit caps search_blocks results when the caller sets
// no limit.
const defaultSearchLimit = 5

func (r *Registry) registerBlockTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_blocks",
		Description: "List the blocks in a content source and the standard files each one carries.",
		Annotations: &mcp.ToolAnnotations{Title: "List blocks", ReadOnlyHint: true},
	}, r.listBlocks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_block",
		Description: "Get one block's script, stylesheet, and README, with presence flags for each.",
		Annotations: &mcp.ToolAnnotations{Title: "Get block", ReadOnlyHint: true},
	}, r.getBlock)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_block",
		Description: "Analyze a block's code: description, variants, CSS classes, and structure features.",
		Annotations: &mcp.ToolAnnotations{Title: "Analyze block", ReadOnlyHint: true},
	}, r.analyzeBlock)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_blocks",
		Description: "Search blocks by name, variants, class names, description, and README text; returns ranked matches.",
		Annotations: &mcp.ToolAnnotations{Title: "Search blocks", ReadOnlyHint: true},
	}, r.searchBlocks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_block_content",
		Description: "Extract live example markup for a block from published pages, keyed by variant.",
		Annotations: &mcp.ToolAnnotations{Title: "Extract block content", ReadOnlyHint: true},
	}, r.extractBlockContent)
}

type listBlocksArgs struct {
	SourceArgs
}

type listBlocksResult struct {
	Source string          `json:"source"`
	Count  int             `json:"count"`
	Blocks []block.Listing `json:"blocks"`
}

func (r *Registry) listBlocks(ctx context.Context, req *mcp.CallToolRequest, args listBlocksArgs) (*mcp.CallToolResult, listBlocksResult, error) {
	src, err := r.resolveSource(args.SourceArgs)
	if err != nil {
		return nil, listBlocksResult{}, err
	}
	listings, err := block.List(ctx, src)
	if err != nil {
		return nil, listBlocksResult{}, err
	}
	return nil, listBlocksResult{
		Source: src.Info().String(),
		Count:  len(listings),
		Blocks: listings,
	}, nil
}

type getBlockArgs struct {
	SourceArgs
	Name         string `json:"name" jsonschema:"block name"`
	RenderReadme bool   `json:"render_readme,omitempty" jsonschema:"additionally render the README from Markdown to HTML"`
}

type getBlockResult struct {
	Name       string `json:"name"`
	Exists     bool   `json:"exists"`
	HasJS      bool   `json:"hasJS"`
	HasCSS     bool   `json:"hasCSS"`
	HasReadme  bool   `json:"hasReadme"`
	JS         string `json:"js,omitempty"`
	CSS        string `json:"css,omitempty"`
	Readme     string `json:"readme,omitempty"`
	ReadmeHTML string `json:"readmeHTML,omitempty"`
}

func (r *Registry) getBlock(ctx context.Context, req *mcp.CallToolRequest, args getBlockArgs) (*mcp.CallToolResult, getBlockResult, error) {
	src, err := r.resolveSource(args.SourceArgs)
	if err != nil {
		return nil, getBlockResult{}, err
	}
	b, err := block.Load(ctx, src, args.Name)
	if err != nil {
		return nil, getBlockResult{}, err
	}
	out := getBlockResult{
		Name:      b.Name,
		Exists:    b.Exists(),
		HasJS:     b.HasJS,
		HasCSS:    b.HasCSS,
		HasReadme: b.HasReadme,
		JS:        b.JS,
		CSS:       b.CSS,
		Readme:    b.Readme,
	}
	if args.RenderReadme && b.HasReadme {
		html, err := docgen.RenderReadme(b.Readme)
		if err != nil {
			return nil, getBlockResult{}, err
		}
		out.ReadmeHTML = html
	}
	return nil, out, nil
}

type analyzeBlockArgs struct {
	SourceArgs
	Name string `json:"name" jsonschema:"block name"`
}

func (r *Registry) analyzeBlock(ctx context.Context, req *mcp.CallToolRequest, args analyzeBlockArgs) (*mcp.CallToolResult, block.Analysis, error) {
	src, err := r.resolveSource(args.SourceArgs)
	if err != nil {
		return nil, block.Analysis{}, err
	}
	analysis, err := block.Analyze(ctx, src, args.Name)
	if err != nil {
		return nil, block.Analysis{}, err
	}
	return nil, analysis, nil
}

type searchBlocksArgs struct {
	SourceArgs
	Query string `json:"query" jsonschema:"search terms matched against names, variants, class names, descriptions, and README text"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches, default 5"`
}

type searchBlocksResult struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Matches []search.Match `json:"matches"`
}

func (r *Registry) searchBlocks(ctx context.Context, req *mcp.CallToolRequest, args searchBlocksArgs) (*mcp.CallToolResult, searchBlocksResult, error) {
	src, err := r.resolveSource(args.SourceArgs)
	if err != nil {
		return nil, searchBlocksResult{}, err
	}
	listings, err := block.List(ctx, src)
	if err != nil {
		return nil, searchBlocksResult{}, err
	}

	// Assemble the searchable corpus, one goroutine per block.
	docs := make([]search.Doc, len(listings))
	var wg sync.WaitGroup
	for i, listing := range listings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs[i] = searchDoc(ctx, src, listing.Name)
		}()
	}
	wg.Wait()

	limit := args.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	matches, err := r.searcher.Search(args.Query, limit, docs)
	if err != nil {
		return nil, searchBlocksResult{}, err
	}
	return nil, searchBlocksResult{
		Query:   args.Query,
		Count:   len(matches),
		Matches: matches,
	}, nil
}

// searchDoc builds the searchable view of one block: analysis fields
// plus README text. Analysis failure leaves a name-only doc.
func searchDoc(ctx context.Context, src source.Source, name string) search.Doc {
	doc := search.Doc{Name: name}
	analysis, err := block.Analyze(ctx, src, name)
	if err != nil {
		return doc
	}
	doc.Description = analysis.Description
	doc.Variants = analysis.Variants
	doc.Classes = analysis.Classes
	if readme, ok := block.Readme(ctx, src, name); ok {
		doc.Text = readme
	}
	return doc
}

type extractContentArgs struct {
	Org   string   `json:"org,omitempty" jsonschema:"content organization (defaults to the server configuration)"`
	Repo  string   `json:"repo,omitempty" jsonschema:"content repository (defaults to the server configuration)"`
	Block string   `json:"block" jsonschema:"block name"`
	Paths []string `json:"paths,omitempty" jsonschema:"published page paths to scan in order (defaults to the block's library, demo, and home pages)"`
}

type extractContentResult struct {
	Block   string            `json:"block"`
	Found   bool              `json:"found"`
	Path    string            `json:"path,omitempty"`
	Content map[string]string `json:"content"`
}

func (r *Registry) extractBlockContent(ctx context.Context, req *mcp.CallToolRequest, args extractContentArgs) (*mcp.CallToolResult, extractContentResult, error) {
	if err := block.ValidateName(args.Block); err != nil {
		return nil, extractContentResult{}, err
	}
	org, repo, err := r.orgRepo(args.Org, args.Repo)
	if err != nil {
		return nil, extractContentResult{}, err
	}
	content, page, found := block.FindContent(ctx, r.docs, org, repo, args.Block, args.Paths...)
	if content == nil {
		content = map[string]string{}
	}
	return nil, extractContentResult{
		Block:   args.Block,
		Found:   found,
		Path:    page,
		Content: content,
	}, nil
}
