package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/bobmcallan/notion-mcp/internal/common"
)

// Converter turns one parsed OpenAPI document into a ToolDefinition plus an
// OperationDescriptor lookup. Pure transform: no network or filesystem
// access. External-name truncation happens at catalog publish time, not here.
type Converter struct {
	doc       *openapi3.T
	overrides []OverrideRule
	logger    *common.Logger
}

// NewConverter creates a converter for the given document using the shipped
// Notion override table.
func NewConverter(doc *openapi3.T, logger *common.Logger) *Converter {
	return &Converter{doc: doc, overrides: notionOverrides, logger: logger}
}

// NewConverterWithOverrides creates a converter with a custom override table.
func NewConverterWithOverrides(doc *openapi3.T, rules []OverrideRule, logger *common.Logger) *Converter {
	return &Converter{doc: doc, overrides: rules, logger: logger}
}

// BaseURL returns the document's declared server base URL. A document without
// one cannot be served and this is a fatal configuration error at startup.
func (c *Converter) BaseURL() (string, error) {
	if len(c.doc.Servers) == 0 || c.doc.Servers[0].URL == "" {
		return "", fmt.Errorf("openapi document declares no server base URL")
	}
	return strings.TrimSuffix(c.doc.Servers[0].URL, "/"), nil
}

// Convert walks every operation in every path entry and produces the tool
// definition and operation lookup. A missing operationId fails the whole
// conversion; malformed schema fragments degrade per-property instead.
func (c *Converter) Convert(apiName string) (*ToolDefinition, map[string]*OperationDescriptor, error) {
	def := &ToolDefinition{APIName: apiName}
	if c.doc.Info != nil {
		def.Description = c.doc.Info.Title
	}

	ops := make(map[string]*OperationDescriptor)

	paths := c.doc.Paths.Map()
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		pathItem := paths[path]
		operations := pathItem.Operations()
		methods := make([]string, 0, len(operations))
		for m := range operations {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, httpMethod := range methods {
			op := operations[httpMethod]
			if op.OperationID == "" {
				return nil, nil, fmt.Errorf("operation %s %s has no operationId", httpMethod, path)
			}

			descriptor, method := c.convertOperation(httpMethod, path, op)
			applyOverrides(c.overrides, op.OperationID, method.InputSchema)

			def.Methods = append(def.Methods, method)
			ops[method.Name] = descriptor
		}
	}

	return def, ops, nil
}

// convertOperation builds the OperationDescriptor and ToolMethod for one
// operation. The input schema property set is the union of the declared
// path/query/header parameters and the request body's top-level properties,
// sharing one flat namespace.
func (c *Converter) convertOperation(httpMethod, path string, op *openapi3.Operation) (*OperationDescriptor, ToolMethod) {
	descriptor := &OperationDescriptor{
		OperationID: op.OperationID,
		Method:      strings.ToUpper(httpMethod),
		Path:        path,
	}

	properties := make(map[string]any)
	var required []any

	for _, paramRef := range op.Parameters {
		if paramRef == nil || paramRef.Value == nil {
			continue
		}
		param := paramRef.Value
		switch param.In {
		case "path", "query", "header":
		default:
			continue
		}

		schema := translateSchema(param.Schema, make(map[*openapi3.Schema]bool))
		if param.Description != "" {
			if _, has := schema["description"]; !has {
				schema["description"] = param.Description
			}
		}
		descriptor.Parameters = append(descriptor.Parameters, Parameter{
			Name:     param.Name,
			In:       param.In,
			Required: param.Required,
			Schema:   schema,
		})
		properties[param.Name] = schema
		if param.Required {
			required = append(required, param.Name)
		}
	}

	if body := requestBodyContent(op); body != nil {
		descriptor.HasBody = true
		descriptor.FileParams = fileParams(body)
		bodySchema := translateSchema(body.Schema, make(map[*openapi3.Schema]bool))
		descriptor.BodySchema = bodySchema

		if bodyProps, ok := bodySchema["properties"].(map[string]any); ok {
			for name, propSchema := range bodyProps {
				properties[name] = propSchema
			}
		}
		if bodyRequired, ok := bodySchema["required"].([]any); ok {
			required = append(required, bodyRequired...)
		}
	}

	inputSchema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		inputSchema["required"] = required
	}

	return descriptor, ToolMethod{
		Name:        op.OperationID,
		Description: methodDescription(op),
		InputSchema: inputSchema,
	}
}

// requestBodyContent picks the media type used for the request body: JSON
// when declared, multipart otherwise, then any remaining content type.
func requestBodyContent(op *openapi3.Operation) *openapi3.MediaType {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	if len(content) == 0 {
		return nil
	}
	if mt := content.Get("application/json"); mt != nil {
		return mt
	}
	if mt := content.Get("multipart/form-data"); mt != nil {
		return mt
	}
	for _, mt := range content {
		return mt
	}
	return nil
}

// fileParams collects the binary-format property names of a multipart body.
// Computed once here so per-call dispatch never re-inspects the schema.
func fileParams(body *openapi3.MediaType) []string {
	if body.Schema == nil || body.Schema.Value == nil {
		return nil
	}
	var names []string
	for name, propRef := range body.Schema.Value.Properties {
		if propRef == nil || propRef.Value == nil {
			continue
		}
		prop := propRef.Value
		if prop.Format == "binary" {
			names = append(names, name)
			continue
		}
		if prop.Items != nil && prop.Items.Value != nil && prop.Items.Value.Format == "binary" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func methodDescription(op *openapi3.Operation) string {
	if op.Summary != "" && op.Description != "" && op.Summary != op.Description {
		return op.Summary + "\n\n" + op.Description
	}
	if op.Description != "" {
		return op.Description
	}
	return op.Summary
}
