// Package registry exposes the block library as an MCP tool server.
//
// Registry combines the source, block, docgen, search, sheet, and
// library packages into a fixed catalog of typed tools and serves
// them over stdio or streamable HTTP.
//
// Tool groups:
//   - Blocks: list_blocks, get_block, analyze_block, search_blocks,
//     extract_block_content
//   - Documents: generate_block_doc, save_block_doc, document_block,
//     get_document, save_document
//   - Sheets: list/set/remove_placeholder, setup_placeholders,
//     list/set/remove_template
//   - Library: register_library, get_library
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerName:    "blocklibrary",
//	    ServerVersion: "1.0.0",
//	    Org:           "acme",
//	    Repo:          "site",
//	})
//	defer reg.Close()
//
//	ctx := context.Background()
//	if err := reg.ServeStdio(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Every tool call is independent and stateless apart from the remote
// documents it reads and writes; handlers validate input before any
// I/O and encode expected "not found" outcomes as result fields, not
// errors. Callers may select a content source per call; calls that
// select nothing use the server's configured defaults.
package registry
