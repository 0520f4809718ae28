package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/notion-mcp/internal/client"
	"github.com/bobmcallan/notion-mcp/internal/common"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func newTestDispatcher(t *testing.T, serverURL string) *Dispatcher {
	t.Helper()
	catalog := buildTestCatalog(t, "notion", "post-page")
	apiClient := client.New(serverURL, map[string]string{
		"Authorization": "Bearer test-token",
	}, 10*time.Second, common.NewSilentLogger())
	return NewDispatcher(catalog, apiClient, common.NewSilentLogger())
}

func TestHandler_StringifiedArgumentsMatchParsed(t *testing.T) {
	var bodies []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		json.Unmarshal(data, &body)
		bodies = append(bodies, body)
		w.Write([]byte(`{"object":"page","id":"new"}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, server.URL)
	handle := d.handler("notion-post-page")

	parsed := map[string]any{
		"parent":   map[string]any{"page_id": "abc"},
		"archived": false,
	}
	stringified := map[string]any{
		"parent":   `{"page_id":"abc"}`,
		"archived": "false",
	}

	if _, err := handle(context.Background(), callRequest("notion-post-page", parsed)); err != nil {
		t.Fatalf("parsed call failed: %v", err)
	}
	if _, err := handle(context.Background(), callRequest("notion-post-page", stringified)); err != nil {
		t.Fatalf("stringified call failed: %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("request count = %d, want 2", len(bodies))
	}
	if !reflect.DeepEqual(bodies[0], bodies[1]) {
		t.Errorf("stringified call sent different body:\nparsed:      %v\nstringified: %v", bodies[0], bodies[1])
	}
}

func TestHandler_FormatsSuccessResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"user","id":"u1","name":"Jane Doe","person":{"email":"jane@example.com"}}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, server.URL)
	result, err := d.handler("notion-post-page")(context.Background(), callRequest("notion-post-page", nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	got := resultText(t, result)
	if got != "Jane Doe [user:u1] (jane@example.com)" {
		t.Errorf("result text = %q", got)
	}
}

func TestHandler_APIErrorBecomesTextResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, server.URL)
	result, err := d.handler("notion-post-page")(context.Background(), callRequest("notion-post-page", nil))
	if err != nil {
		t.Fatalf("API errors must not surface as protocol failures, got: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result text is not JSON: %v", err)
	}
	if payload["status"] != "error" {
		t.Errorf("status = %v, want error", payload["status"])
	}
	if payload["code"] != "object_not_found" {
		t.Errorf("code = %v, want object_not_found", payload["code"])
	}
	if payload["message"] != "Could not find page" {
		t.Errorf("message = %v", payload["message"])
	}
}

func TestHandler_NonObjectErrorBodyUnderData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`service unavailable`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, server.URL)
	result, err := d.handler("notion-post-page")(context.Background(), callRequest("notion-post-page", nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("result text is not JSON: %v", err)
	}
	if payload["status"] != "error" {
		t.Errorf("status = %v, want error", payload["status"])
	}
	if payload["data"] != "service unavailable" {
		t.Errorf("data = %v", payload["data"])
	}
}

func TestHandler_TransportFailurePropagates(t *testing.T) {
	d := newTestDispatcher(t, "http://127.0.0.1:1")

	_, err := d.handler("notion-post-page")(context.Background(), callRequest("notion-post-page", nil))
	if err == nil {
		t.Fatal("transport failures must propagate as errors")
	}
}

func TestHandler_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t, "http://127.0.0.1:1")

	result, err := d.handler("notion-nonexistent")(context.Background(), callRequest("notion-nonexistent", nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("unknown tool should produce an error result")
	}
	if !strings.Contains(resultText(t, result), "unknown tool") {
		t.Errorf("result text = %q", resultText(t, result))
	}
}
