package notion

import (
	"fmt"
	"strings"
	"testing"
)

// rt builds a minimal rich text array with one plain run.
func rt(content string) string {
	return fmt.Sprintf(`[{"type":"text","plain_text":%q,"text":{"content":%q}}]`, content, content)
}

func TestFormat_SingleUser(t *testing.T) {
	raw := `{"object":"user","id":"u1","name":"Jane Doe","type":"person","person":{"email":"jane@example.com"}}`

	got := NewFormatter().Format([]byte(raw))
	want := "Jane Doe [user:u1] (jane@example.com)"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_UserWithoutEmail(t *testing.T) {
	raw := `{"object":"user","id":"b1","name":"Integration Bot","type":"bot"}`

	got := NewFormatter().Format([]byte(raw))
	want := "Integration Bot [user:b1]"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_UserList(t *testing.T) {
	raw := `{"object":"list","results":[
		{"object":"user","id":"u1","name":"Jane Doe","person":{"email":"jane@example.com"}},
		{"object":"user","id":"u2","name":"John Smith"}
	],"has_more":false}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.HasPrefix(got, "Found 2 user(s)\n") {
		t.Errorf("missing user count header: %q", got)
	}
	if !strings.Contains(got, "Jane Doe [user:u1] (jane@example.com)") {
		t.Errorf("missing first user line: %q", got)
	}
	if !strings.Contains(got, "John Smith [user:u2]") {
		t.Errorf("missing second user line: %q", got)
	}
}

func TestFormat_SearchResults(t *testing.T) {
	raw := `{"object":"list","type":"page_or_database","results":[
		{"object":"page","id":"page123","properties":{"title":{"type":"title","title":` + rt("My Page") + `}}},
		{"object":"database","id":"db456","title":` + rt("My Database") + `}
	],"has_more":false}`

	got := NewFormatter().Format([]byte(raw))
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3: %q", len(lines), got)
	}
	if lines[0] != "Found 2 result(s)" {
		t.Errorf("header = %q, want Found 2 result(s)", lines[0])
	}
	if lines[1] != "📄 My Page [page:page123]" {
		t.Errorf("page line = %q", lines[1])
	}
	if lines[2] != "🗃️ My Database [database:db456]" {
		t.Errorf("database line = %q", lines[2])
	}
}

func TestFormat_SearchResultCustomIcon(t *testing.T) {
	raw := `{"object":"list","results":[
		{"object":"page","id":"p1","icon":{"type":"emoji","emoji":"🚀"},"properties":{"title":{"type":"title","title":` + rt("Launch Plan") + `}}}
	]}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.Contains(got, "🚀 Launch Plan [page:p1]") {
		t.Errorf("custom icon not used: %q", got)
	}
}

func TestFormat_UntitledPage(t *testing.T) {
	raw := `{"object":"list","results":[{"object":"page","id":"p1","properties":{}}]}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.Contains(got, "📄 (untitled) [page:p1]") {
		t.Errorf("untitled fallback missing: %q", got)
	}
}

func TestFormat_BlockChildren(t *testing.T) {
	raw := `{"object":"list","results":[
		{"object":"block","id":"abc123","type":"heading_1","heading_1":{"rich_text":` + rt("Project Notes") + `}},
		{"object":"block","id":"def456","type":"paragraph","paragraph":{"rich_text":` + rt("Some intro text.") + `}},
		{"object":"block","id":"pqr678","type":"to_do","to_do":{"rich_text":` + rt("Completed task") + `,"checked":true}},
		{"object":"block","id":"stu901","type":"to_do","to_do":{"rich_text":` + rt("Open task") + `,"checked":false}}
	]}`

	got := NewFormatter().Format([]byte(raw))
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4: %q", len(lines), got)
	}
	want := []string{
		"# Project Notes [block:abc123]",
		"Some intro text. [block:def456]",
		"- [x] Completed task [block:pqr678]",
		"- [ ] Open task [block:stu901]",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestFormat_NumberedListCounters(t *testing.T) {
	item := func(id, text string) string {
		return fmt.Sprintf(`{"object":"block","id":%q,"type":"numbered_list_item","numbered_list_item":{"rich_text":%s}}`, id, rt(text))
	}
	raw := `{"object":"list","results":[
		` + item("n1", "first") + `,
		` + item("n2", "second") + `,
		{"object":"block","id":"p1","type":"paragraph","paragraph":{"rich_text":` + rt("break") + `}},
		` + item("n3", "restarted") + `
	]}`

	got := NewFormatter().Format([]byte(raw))
	lines := strings.Split(got, "\n")
	want := []string{
		"1. first [block:n1]",
		"2. second [block:n2]",
		"break [block:p1]",
		"1. restarted [block:n3]",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestFormat_CountersIndependentAcrossRenders(t *testing.T) {
	raw := `{"object":"block","id":"n1","type":"numbered_list_item","numbered_list_item":{"rich_text":` + rt("only") + `}}`

	f := NewFormatter()
	first := f.Format([]byte(raw))
	second := f.Format([]byte(raw))
	if first != "1. only [block:n1]" || second != "1. only [block:n1]" {
		t.Errorf("counters leaked across renders: %q then %q", first, second)
	}
}

func TestFormat_CodeBlock(t *testing.T) {
	raw := `{"object":"block","id":"c1","type":"code","code":{"rich_text":` + rt(`fmt.Println("hi")`) + `,"language":"go"}}`

	got := NewFormatter().Format([]byte(raw))
	want := "```go\nfmt.Println(\"hi\")\n``` [block:c1]"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_TableBlocks(t *testing.T) {
	raw := `{"object":"list","results":[
		{"object":"block","id":"t1","type":"table","table":{"table_width":2}},
		{"object":"block","id":"r1","type":"table_row","table_row":{"cells":[` + rt("Name") + `,` + rt("Role") + `]}}
	]}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.Contains(got, "[table (2 columns)] [block:t1]") {
		t.Errorf("table line missing: %q", got)
	}
	if !strings.Contains(got, "| Name | Role | [block:r1]") {
		t.Errorf("table row line wrong: %q", got)
	}
}

func TestFormat_ChildPageBlock(t *testing.T) {
	raw := `{"object":"block","id":"cp1","type":"child_page","child_page":{"title":"Subpage"}}`

	got := NewFormatter().Format([]byte(raw))
	want := "📄 Subpage [page:cp1]"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_UnknownBlockType(t *testing.T) {
	raw := `{"object":"block","id":"x1","type":"synced_block","synced_block":{}}`

	got := NewFormatter().Format([]byte(raw))
	want := "[synced_block] [block:x1]"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_DividerAndQuote(t *testing.T) {
	raw := `{"object":"list","results":[
		{"object":"block","id":"d1","type":"divider","divider":{}},
		{"object":"block","id":"q1","type":"quote","quote":{"rich_text":` + rt("wise words") + `}},
		{"object":"block","id":"cl1","type":"callout","callout":{"rich_text":` + rt("heads up") + `,"icon":{"type":"emoji","emoji":"⚠️"}}}
	]}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.Contains(got, "--- [block:d1]") {
		t.Errorf("divider missing: %q", got)
	}
	if !strings.Contains(got, "> wise words [block:q1]") {
		t.Errorf("quote missing: %q", got)
	}
	if !strings.Contains(got, "> ⚠️ heads up [block:cl1]") {
		t.Errorf("callout missing: %q", got)
	}
}

func TestFormat_SinglePageFallsBackToJSON(t *testing.T) {
	raw := `{"object":"page","id":"p1","url":"https://notion.so/p1"}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.HasPrefix(got, "{\n") {
		t.Errorf("expected pretty JSON, got %q", got)
	}
	if !strings.Contains(got, `"id": "p1"`) {
		t.Errorf("fallback lost data: %q", got)
	}
}

func TestFormat_EmptyListFallsBackToJSON(t *testing.T) {
	raw := `{"object":"list","results":[],"has_more":false}`

	got := NewFormatter().Format([]byte(raw))
	if !strings.Contains(got, `"results": []`) {
		t.Errorf("expected pretty JSON for untyped empty list: %q", got)
	}
}

func TestFormat_NonJSONPassesThrough(t *testing.T) {
	got := NewFormatter().Format([]byte("plain text response"))
	if got != "plain text response" {
		t.Errorf("Format = %q, want raw passthrough", got)
	}
}
