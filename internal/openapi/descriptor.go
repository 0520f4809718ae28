// Package openapi converts an OpenAPI 3.x document into the tool catalog
// served over MCP: one ToolDefinition holding the callable methods, plus an
// OperationDescriptor lookup binding each method to its HTTP shape.
package openapi

// Parameter describes one declared path, query, or header parameter.
type Parameter struct {
	Name     string
	In       string // "path", "query", "header"
	Required bool
	Schema   map[string]any
}

// OperationDescriptor binds a tool method to its HTTP method/path/parameter
// shape. Built once at conversion time and read-only thereafter.
type OperationDescriptor struct {
	OperationID string
	Method      string // canonical upper-case HTTP method
	Path        string // path template with {name} placeholders
	Parameters  []Parameter
	HasBody     bool
	BodySchema  map[string]any
	// FileParams lists request-body properties that carry file uploads.
	// Non-empty means the request is sent as multipart/form-data.
	FileParams []string
}

// ParameterNames returns the declared path/query/header parameter names.
func (op *OperationDescriptor) ParameterNames() map[string]Parameter {
	names := make(map[string]Parameter, len(op.Parameters))
	for _, p := range op.Parameters {
		names[p.Name] = p
	}
	return names
}

// ToolMethod is one callable method exposed under the API's tool grouping.
// InputSchema is an object schema whose properties are the union of the
// operation's parameters and its request-body top-level properties.
type ToolMethod struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolDefinition groups every method converted from one OpenAPI document
// under a single logical API name. Built once at startup; immutable.
type ToolDefinition struct {
	APIName     string
	Description string
	Methods     []ToolMethod
}
