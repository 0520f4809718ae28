// Package reconcile narrows the loosely-typed arguments produced by LLM
// callers back to the shape an operation's schema declares. The advertised
// tool schemas are widened (see widen.go) so stringified structures pass
// client-side validation; this package performs the matching server-side
// narrowing. Reconciliation never fails: the worst case for any field is
// passing it through unchanged.
package reconcile

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Arguments returns a copy of args with each value reconciled against the
// corresponding property of the tool's input object schema. Properties
// absent from the schema pass through unchanged.
func Arguments(args map[string]any, inputSchema map[string]any) map[string]any {
	if len(args) == 0 {
		return args
	}
	props, _ := inputSchema["properties"].(map[string]any)
	out := make(map[string]any, len(args))
	for name, value := range args {
		if propSchema, ok := props[name].(map[string]any); ok {
			out[name] = Value(value, propSchema)
		} else {
			out[name] = value
		}
	}
	return out
}

// Value reconciles one value against one schema node: recovers stringified
// structures, coerces stringified primitives, and recurses into children.
func Value(value any, schema map[string]any) any {
	if schema == nil {
		return value
	}

	if s, ok := value.(string); ok {
		if expectsStructure(schema) {
			if parsed, ok := parseJSONString(s); ok {
				value = parsed
			} else {
				// Not valid JSON — may be a legitimate string value.
				return value
			}
		} else {
			return coercePrimitive(s, schema)
		}
	}

	switch v := value.(type) {
	case map[string]any:
		branch := structureBranch(schema, "object")
		if branch == nil {
			return v
		}
		props, _ := branch["properties"].(map[string]any)
		if len(props) == 0 {
			return v
		}
		out := make(map[string]any, len(v))
		for name, child := range v {
			if childSchema, ok := props[name].(map[string]any); ok {
				out[name] = Value(child, childSchema)
			} else {
				out[name] = child
			}
		}
		return out
	case []any:
		branch := structureBranch(schema, "array")
		if branch == nil {
			return v
		}
		items, _ := branch["items"].(map[string]any)
		if items == nil {
			return v
		}
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = Value(child, items)
		}
		return out
	default:
		return value
	}
}

// parseJSONString attempts to parse s as a JSON structure. Scalars parsed
// from a bare string are not structure recovery and are rejected.
func parseJSONString(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// coercePrimitive converts a string to the primitive type the schema
// declares, leaving the string unchanged when it is not a valid literal.
func coercePrimitive(s string, schema map[string]any) any {
	switch {
	case expectsType(schema, "integer"):
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
	case expectsType(schema, "number"):
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	case expectsType(schema, "boolean"):
		if strings.EqualFold(s, "true") {
			return true
		}
		if strings.EqualFold(s, "false") {
			return false
		}
	}
	return s
}

// expectsStructure reports whether the schema (or any union branch) expects
// an object or array value.
func expectsStructure(schema map[string]any) bool {
	return structureBranch(schema, "object") != nil || structureBranch(schema, "array") != nil
}

// structureBranch returns the first node — the schema itself or a
// oneOf/anyOf/allOf branch, searched recursively — that expects the given
// structural type, or nil.
func structureBranch(schema map[string]any, kind string) map[string]any {
	if schema == nil {
		return nil
	}
	if hasType(schema, kind) {
		return schema
	}
	// Untyped nodes carrying the structural keyword count too.
	if _, hasAnyType := schema["type"]; !hasAnyType {
		if kind == "object" {
			if _, ok := schema["properties"]; ok {
				return schema
			}
		}
		if kind == "array" {
			if _, ok := schema["items"]; ok {
				return schema
			}
		}
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf"} {
		branches, _ := schema[key].([]any)
		for _, b := range branches {
			if branch, ok := b.(map[string]any); ok {
				if found := structureBranch(branch, kind); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

// expectsType reports whether the schema (or any union branch) declares the
// given primitive type.
func expectsType(schema map[string]any, t string) bool {
	if hasType(schema, t) {
		return true
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf"} {
		branches, _ := schema[key].([]any)
		for _, b := range branches {
			if branch, ok := b.(map[string]any); ok && expectsType(branch, t) {
				return true
			}
		}
	}
	return false
}

// hasType handles both scalar and list-valued "type" keywords.
func hasType(schema map[string]any, t string) bool {
	switch declared := schema["type"].(type) {
	case string:
		return declared == t
	case []any:
		for _, d := range declared {
			if s, ok := d.(string); ok && s == t {
				return true
			}
		}
	}
	return false
}
