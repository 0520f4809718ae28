// Package mcp publishes the converted tool catalog over the Model Context
// Protocol and dispatches inbound tool calls through the reconcile → execute
// → format pipeline.
package mcp

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/notion-mcp/internal/common"
	"github.com/bobmcallan/notion-mcp/internal/openapi"
	"github.com/bobmcallan/notion-mcp/internal/reconcile"
)

// maxToolNameLength is the external tool name limit imposed by MCP clients.
const maxToolNameLength = 64

// Entry binds one published tool to its operation and canonical (un-widened)
// input schema.
type Entry struct {
	Name      string
	Tool      mcp.Tool
	Method    openapi.ToolMethod
	Operation *openapi.OperationDescriptor
}

// Catalog is the published tool set for one loaded document. Built once at
// startup and read-only afterwards, so concurrent calls need no locking.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// BuildCatalog publishes a ToolDefinition: external names are
// `{apiName}-{method}` truncated to 64 characters, and the advertised input
// schemas are widened so stringified structures pass client validation.
//
// Truncation-induced collisions get a deterministic disambiguation: the tail
// of the truncated name is replaced with a short hash of the full name. The
// original behavior let the last registration silently win; the hash keeps
// every tool callable.
func BuildCatalog(def *openapi.ToolDefinition, ops map[string]*openapi.OperationDescriptor, logger *common.Logger) (*Catalog, error) {
	catalog := &Catalog{byName: make(map[string]int, len(def.Methods))}

	for _, method := range def.Methods {
		op, ok := ops[method.Name]
		if !ok {
			return nil, fmt.Errorf("method %q has no operation descriptor", method.Name)
		}

		name := publishName(def.APIName, method.Name, catalog.byName)

		widened := reconcile.WidenInputSchema(method.InputSchema)
		schemaJSON, err := json.Marshal(widened)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input schema for %q: %w", name, err)
		}

		catalog.entries = append(catalog.entries, Entry{
			Name:      name,
			Tool:      mcp.NewToolWithRawSchema(name, method.Description, schemaJSON),
			Method:    method,
			Operation: op,
		})
		catalog.byName[name] = len(catalog.entries) - 1

		if len(def.APIName)+1+len(method.Name) > maxToolNameLength {
			logger.Warn().Str("method", method.Name).Str("published", name).Msg("tool name truncated")
		}
	}

	return catalog, nil
}

// publishName derives the external tool name: `{apiName}-{method}` truncated
// to the name limit, with a hash-disambiguated tail on collision.
func publishName(apiName, method string, taken map[string]int) string {
	full := apiName + "-" + method
	name := full
	if len(name) > maxToolNameLength {
		name = name[:maxToolNameLength]
	}
	if _, collides := taken[name]; !collides {
		return name
	}

	suffix := fmt.Sprintf("-%07x", hashName(full))
	keep := maxToolNameLength - len(suffix)
	if len(name) > keep {
		name = name[:keep]
	}
	return name + suffix
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32() & 0xfffffff
}

// Entries returns the published entries in registration order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Lookup finds a published entry by external tool name.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return &c.entries[idx], true
}

// Len returns the number of published tools.
func (c *Catalog) Len() int {
	return len(c.entries)
}
