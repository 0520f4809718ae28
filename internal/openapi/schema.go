package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// permissiveSchema is the fallback for fragments the translator cannot
// represent: it accepts any JSON value, so a degraded property never blocks
// the rest of the conversion.
func permissiveSchema() map[string]any {
	return map[string]any{}
}

// translateSchema converts an openapi3 schema into a plain JSON-Schema map
// suitable for an MCP tool input schema. Cyclic references and unresolvable
// fragments degrade to the permissive schema for the affected node only.
func translateSchema(ref *openapi3.SchemaRef, visited map[*openapi3.Schema]bool) map[string]any {
	if ref == nil || ref.Value == nil {
		return permissiveSchema()
	}
	schema := ref.Value
	if visited[schema] {
		return permissiveSchema()
	}
	visited[schema] = true
	defer delete(visited, schema)

	node := make(map[string]any)

	if schema.Type != nil && len(*schema.Type) > 0 {
		if len(*schema.Type) == 1 {
			node["type"] = (*schema.Type)[0]
		} else {
			types := make([]any, 0, len(*schema.Type))
			for _, t := range *schema.Type {
				types = append(types, t)
			}
			node["type"] = types
		}
	}
	if schema.Description != "" {
		node["description"] = schema.Description
	}
	if schema.Format != "" {
		node["format"] = schema.Format
	}
	if len(schema.Enum) > 0 {
		node["enum"] = schema.Enum
	}
	if schema.Default != nil {
		node["default"] = schema.Default
	}

	if len(schema.Properties) > 0 {
		props := make(map[string]any, len(schema.Properties))
		for name, propRef := range schema.Properties {
			props[name] = translateSchema(propRef, visited)
		}
		node["properties"] = props
	}
	if len(schema.Required) > 0 {
		required := make([]any, 0, len(schema.Required))
		for _, r := range schema.Required {
			required = append(required, r)
		}
		node["required"] = required
	}
	if schema.Items != nil {
		node["items"] = translateSchema(schema.Items, visited)
	}

	if combined := translateCombinators(schema, visited); combined != nil {
		for k, v := range combined {
			node[k] = v
		}
	}

	if schema.AdditionalProperties.Has != nil {
		node["additionalProperties"] = *schema.AdditionalProperties.Has
	} else if schema.AdditionalProperties.Schema != nil {
		node["additionalProperties"] = translateSchema(schema.AdditionalProperties.Schema, visited)
	}

	return node
}

// translateCombinators handles oneOf/anyOf/allOf. An empty combinator branch
// list is an unsupported shape and degrades to nil (caller keeps the node's
// other fields).
func translateCombinators(schema *openapi3.Schema, visited map[*openapi3.Schema]bool) map[string]any {
	out := make(map[string]any)
	if branches := translateBranches(schema.OneOf, visited); branches != nil {
		out["oneOf"] = branches
	}
	if branches := translateBranches(schema.AnyOf, visited); branches != nil {
		out["anyOf"] = branches
	}
	if branches := translateBranches(schema.AllOf, visited); branches != nil {
		out["allOf"] = branches
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func translateBranches(refs openapi3.SchemaRefs, visited map[*openapi3.Schema]bool) []any {
	if len(refs) == 0 {
		return nil
	}
	branches := make([]any, 0, len(refs))
	for _, ref := range refs {
		branches = append(branches, translateSchema(ref, visited))
	}
	return branches
}
