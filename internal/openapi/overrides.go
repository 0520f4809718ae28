package openapi

// OverrideRule relaxes a hardcoded additionalProperties:false on a dynamic
// map container inside one operation's request body. Notion's page
// create/update operations declare the free-form "properties" container
// closed, which rejects legitimate caller-defined property maps.
type OverrideRule struct {
	OperationID string
	// Container is the top-level body property holding the dynamic map.
	Container string
}

// notionOverrides is the shipped override table for the Notion document.
var notionOverrides = []OverrideRule{
	{OperationID: "post-page", Container: "properties"},
	{OperationID: "patch-page", Container: "properties"},
}

// applyOverrides relaxes additionalProperties on the targeted container of
// the given operation's input schema. Operations without a matching rule are
// left untouched.
func applyOverrides(rules []OverrideRule, operationID string, inputSchema map[string]any) {
	for _, rule := range rules {
		if rule.OperationID != operationID {
			continue
		}
		props, ok := inputSchema["properties"].(map[string]any)
		if !ok {
			continue
		}
		container, ok := props[rule.Container].(map[string]any)
		if !ok {
			continue
		}
		if closed, ok := container["additionalProperties"].(bool); ok && !closed {
			container["additionalProperties"] = true
		}
	}
}
