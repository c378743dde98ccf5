package registry

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServeStdio runs the tool server over stdio. Blocks until the client
// disconnects or ctx is cancelled.
func (r *Registry) ServeStdio(ctx context.Context) error {
	return r.Server().Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a streamable HTTP handler for the tool server.
// Each MCP session gets its own server over the shared registry.
func (r *Registry) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return r.Server()
	}, nil)
}
