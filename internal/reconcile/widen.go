package reconcile

// WidenInputSchema returns a deep copy of a tool input object schema whose
// property subtrees accept stringified structures: every node expecting an
// object is wrapped in `anyOf: [{"type":"string"}, original]`. Callers that
// stringify nested structures then pass upstream validation, and Arguments
// performs the narrowing before dispatch. The root object itself is not
// widened — tool arguments always arrive as an object.
func WidenInputSchema(inputSchema map[string]any) map[string]any {
	out := copyMap(inputSchema)
	props, ok := out["properties"].(map[string]any)
	if !ok {
		return out
	}
	widened := make(map[string]any, len(props))
	for name, prop := range props {
		if propSchema, ok := prop.(map[string]any); ok {
			widened[name] = widenNode(copyMap(propSchema))
		} else {
			widened[name] = prop
		}
	}
	out["properties"] = widened
	return out
}

// widenNode widens children first, then wraps the node itself when it
// expects an object.
func widenNode(node map[string]any) map[string]any {
	if props, ok := node["properties"].(map[string]any); ok {
		for name, prop := range props {
			if propSchema, ok := prop.(map[string]any); ok {
				props[name] = widenNode(propSchema)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		node["items"] = widenNode(items)
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf"} {
		if branches, ok := node[key].([]any); ok {
			for i, b := range branches {
				if branch, ok := b.(map[string]any); ok {
					branches[i] = widenNode(branch)
				}
			}
		}
	}

	if hasType(node, "object") {
		return map[string]any{
			"anyOf": []any{
				map[string]any{"type": "string"},
				node,
			},
		}
	}
	return node
}

// copyMap deep-copies a schema tree so widening never mutates the catalog's
// canonical schemas.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
