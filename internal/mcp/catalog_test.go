package mcp

import (
	"strings"
	"testing"

	"github.com/bobmcallan/notion-mcp/internal/common"
	"github.com/bobmcallan/notion-mcp/internal/openapi"
)

func objectPropSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"parent": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page_id": map[string]any{"type": "string"},
				},
			},
			"archived": map[string]any{"type": "boolean"},
		},
	}
}

func buildTestCatalog(t *testing.T, apiName string, methodNames ...string) *Catalog {
	t.Helper()
	def := &openapi.ToolDefinition{APIName: apiName, Description: "test API"}
	ops := make(map[string]*openapi.OperationDescriptor)
	for _, name := range methodNames {
		def.Methods = append(def.Methods, openapi.ToolMethod{
			Name:        name,
			Description: "op " + name,
			InputSchema: objectPropSchema(),
		})
		ops[name] = &openapi.OperationDescriptor{
			OperationID: name,
			Method:      "POST",
			Path:        "/v1/" + name,
			HasBody:     true,
		}
	}
	catalog, err := BuildCatalog(def, ops, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("BuildCatalog failed: %v", err)
	}
	return catalog
}

func TestBuildCatalog_NamesAndLookup(t *testing.T) {
	catalog := buildTestCatalog(t, "notion", "post-page", "retrieve-page")

	if catalog.Len() != 2 {
		t.Fatalf("Len = %d, want 2", catalog.Len())
	}
	entry, ok := catalog.Lookup("notion-post-page")
	if !ok {
		t.Fatal("notion-post-page not published")
	}
	if entry.Operation.Path != "/v1/post-page" {
		t.Errorf("operation path = %s", entry.Operation.Path)
	}
	if _, ok := catalog.Lookup("notion-missing"); ok {
		t.Error("Lookup must miss unknown names")
	}
}

func TestBuildCatalog_TruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 80)
	catalog := buildTestCatalog(t, "notion", long)

	entry := catalog.Entries()[0]
	if len(entry.Name) != maxToolNameLength {
		t.Errorf("name length = %d, want %d", len(entry.Name), maxToolNameLength)
	}
	if !strings.HasPrefix(entry.Name, "notion-aaaa") {
		t.Errorf("name = %q, want truncated prefix", entry.Name)
	}
	if _, ok := catalog.Lookup(entry.Name); !ok {
		t.Error("truncated name must be resolvable")
	}
}

func TestBuildCatalog_CollisionDisambiguation(t *testing.T) {
	shared := strings.Repeat("b", 70)
	first := shared + "-one"
	second := shared + "-two"
	catalog := buildTestCatalog(t, "notion", first, second)

	names := []string{catalog.Entries()[0].Name, catalog.Entries()[1].Name}
	if names[0] == names[1] {
		t.Fatalf("collision not resolved: both published as %q", names[0])
	}
	for _, name := range names {
		if len(name) > maxToolNameLength {
			t.Errorf("name %q exceeds limit", name)
		}
		if _, ok := catalog.Lookup(name); !ok {
			t.Errorf("name %q not resolvable", name)
		}
	}
}

func TestBuildCatalog_CollisionSuffixDeterministic(t *testing.T) {
	shared := strings.Repeat("c", 70)
	first := shared + "-one"
	second := shared + "-two"

	a := buildTestCatalog(t, "notion", first, second)
	b := buildTestCatalog(t, "notion", first, second)
	if a.Entries()[1].Name != b.Entries()[1].Name {
		t.Errorf("disambiguated name differs across builds: %q vs %q",
			a.Entries()[1].Name, b.Entries()[1].Name)
	}
}

func TestBuildCatalog_PublishesWidenedSchema(t *testing.T) {
	catalog := buildTestCatalog(t, "notion", "post-page")
	entry := catalog.Entries()[0]

	published := string(entry.Tool.RawInputSchema)
	if !strings.Contains(published, `"anyOf"`) {
		t.Errorf("published schema not widened: %s", published)
	}
	// Canonical schema stays un-widened for reconciliation.
	if _, widened := entry.Method.InputSchema["anyOf"]; widened {
		t.Error("canonical schema must not be widened")
	}
}

func TestBuildCatalog_MissingOperation(t *testing.T) {
	def := &openapi.ToolDefinition{
		APIName: "notion",
		Methods: []openapi.ToolMethod{{Name: "orphan", InputSchema: objectPropSchema()}},
	}
	_, err := BuildCatalog(def, map[string]*openapi.OperationDescriptor{}, common.NewSilentLogger())
	if err == nil {
		t.Fatal("expected error for method without operation descriptor")
	}
}
