package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/notion-mcp/internal/client"
	"github.com/bobmcallan/notion-mcp/internal/common"
	"github.com/bobmcallan/notion-mcp/internal/notion"
	"github.com/bobmcallan/notion-mcp/internal/reconcile"
)

// Dispatcher owns the catalog and routes each inbound tool call through
// reconciliation, execution, and formatting. All per-call state is
// call-scoped; the catalog itself is immutable.
type Dispatcher struct {
	catalog *Catalog
	client  *client.Client
	logger  *common.Logger
}

// NewDispatcher creates a dispatcher over a built catalog and API client.
func NewDispatcher(catalog *Catalog, apiClient *client.Client, logger *common.Logger) *Dispatcher {
	return &Dispatcher{catalog: catalog, client: apiClient, logger: logger}
}

// Register adds every catalog entry as an MCP tool on the server.
func (d *Dispatcher) Register(s *server.MCPServer) {
	for _, entry := range d.catalog.Entries() {
		s.AddTool(entry.Tool, d.handler(entry.Name))
	}
}

// handler builds the ToolHandlerFunc for one published tool.
func (d *Dispatcher) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entry, ok := d.catalog.Lookup(name)
		if !ok {
			return errorResult(fmt.Sprintf("Error: unknown tool %q", name)), nil
		}

		log := d.logger.WithCorrelationId(uuid.NewString())
		log.Info().Str("tool", name).Str("operation", entry.Operation.OperationID).Msg("tool call")

		args := reconcile.Arguments(request.GetArguments(), entry.Method.InputSchema)

		result, err := d.client.Execute(ctx, entry.Operation, args)
		if err != nil {
			var httpErr *client.HTTPError
			if errors.As(err, &httpErr) {
				log.Warn().Str("tool", name).Int("status", httpErr.Status).Msg("api error response")
				return textResult(errorPayload(httpErr)), nil
			}
			// Transport failure or bad upload path: propagated, not masked.
			log.Error().Str("tool", name).Str("error", err.Error()).Msg("tool call failed")
			return nil, err
		}

		formatter := notion.NewFormatter()
		return textResult(formatter.Format(result.Body)), nil
	}
}

// errorPayload serializes a typed HTTP error as the structured error content
// shape: the remote body's fields when it is an object, otherwise the body
// under "data", always tagged status:"error".
func errorPayload(httpErr *client.HTTPError) string {
	out := make(map[string]any)
	if fields, ok := httpErr.Body.(map[string]any); ok {
		for k, v := range fields {
			out[k] = v
		}
	} else if httpErr.Body != nil {
		out["data"] = httpErr.Body
	}
	out["status"] = "error"

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","data":%q}`, fmt.Sprint(httpErr.Body))
	}
	return string(data)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
