// Package mcp is tested here to assert internal handler behavior and the
// exact wire shapes of results.
//
//nolint:testpackage // we need to call unexported handle* methods and helpers for unit tests
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

type stubIncidentSearcher struct {
	document string
	params   domain.SearchParams
	called   bool
}

func (s *stubIncidentSearcher) SearchDocument(_ context.Context, params domain.SearchParams) string {
	s.called = true
	s.params = params
	return s.document
}

type stubWebSearcher struct {
	document string
	params   domain.WebSearchParams
}

func (s *stubWebSearcher) SearchDocument(_ context.Context, params domain.WebSearchParams) string {
	s.params = params
	return s.document
}

func newTestServer() (*Server, *stubIncidentSearcher, *stubWebSearcher) {
	incidents := &stubIncidentSearcher{document: `{"total_hits": 70}`}
	web := &stubWebSearcher{document: `{"total_results": 3}`}
	return NewServer(incidents, web, logger.NewNop()), incidents, web
}

// textContent unwraps the single text content block of a tool response.
func textContent(t *testing.T, resp *Response) string {
	t.Helper()
	if resp == nil {
		t.Fatal("expected non-nil response")
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(result.Content))
	}
	if result.Content[0].Type != "text" {
		t.Errorf("expected text content, got %q", result.Content[0].Type)
	}
	if result.IsError {
		t.Error("expected isError to be false")
	}
	return result.Content[0].Text
}

func TestHandleRequest_Initialize(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	req := &Request{JSONRPC: "2.0", ID: "1", Method: "initialize", Params: json.RawMessage(`{}`)}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil || resp.Result == nil {
		t.Fatal("expected non-nil result")
	}

	var result struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("expected protocol version 2024-11-05, got %q", result.ProtocolVersion)
	}
	if _, ok := result.Capabilities["tools"]; !ok {
		t.Error("expected capabilities.tools")
	}
	if result.ServerInfo.Name != "incident-insight-mcp" {
		t.Errorf("unexpected server name %q", result.ServerInfo.Name)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	req := &Request{JSONRPC: "2.0", ID: 7, Method: "ping"}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("expected non-nil response")
	}
	if string(resp.Result) != `"pong"` {
		t.Errorf("expected pong, got %s", string(resp.Result))
	}
	if resp.ID != 7 {
		t.Errorf("expected ID 7, got %v", resp.ID)
	}
}

func TestHandleRequest_UnknownMethod_ReturnsMethodNotFound(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	req := &Request{JSONRPC: "2.0", ID: "1", Method: "resources/list"}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response for unknown method")
	}
	if resp.Error.Code != MethodNotFound {
		t.Errorf("expected error code %d (MethodNotFound), got %d", MethodNotFound, resp.Error.Code)
	}
}

func TestHandleRequest_UnknownMethodNotification_ReturnsNil(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	req := &Request{JSONRPC: "2.0", Method: "notifications/initialized"}

	if resp := s.HandleRequest(context.Background(), req); resp != nil {
		t.Errorf("expected nil response for notification, got %+v", resp)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	req := &Request{JSONRPC: "2.0", ID: "1", Method: "tools/list"}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil || resp.Result == nil {
		t.Fatal("expected non-nil result")
	}

	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	const expectedTools = 2
	if n := len(result.Tools); n != expectedTools {
		t.Fatalf("expected %d tools, got %d", expectedTools, n)
	}
	if result.Tools[0].Name != "search_wazuh_incidents" {
		t.Errorf("unexpected first tool %q", result.Tools[0].Name)
	}
	if result.Tools[1].Name != "web_search" {
		t.Errorf("unexpected second tool %q", result.Tools[1].Name)
	}

	props, _ := result.Tools[0].InputSchema["properties"].(map[string]any)
	if props == nil {
		t.Fatal("expected properties in search tool schema")
	}
	days, _ := props["days"].(map[string]any)
	if days == nil {
		t.Fatal("expected days property")
	}
	if _, ok := days["anyOf"]; !ok {
		t.Error("expected days to accept integer or digit string")
	}

	required, _ := result.Tools[1].InputSchema["required"].([]any)
	if len(required) != 1 || required[0] != "query" {
		t.Errorf("expected web_search to require query, got %v", required)
	}
}

func TestHandleRequest_ToolsCall_InvalidParams(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	req := &Request{JSONRPC: "2.0", ID: "1", Method: "tools/call", Params: json.RawMessage(`"not an object"`)}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != InvalidParams {
		t.Errorf("expected InvalidParams, got %d", resp.Error.Code)
	}
}

func TestHandleRequest_ToolsCall_UnknownTool(t *testing.T) {
	t.Helper()
	s, _, _ := newTestServer()
	params := `{"name":"nonexistent_tool","arguments":{}}`
	req := &Request{JSONRPC: "2.0", ID: "1", Method: "tools/call", Params: json.RawMessage(params)}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response for unknown tool")
	}
	if resp.Error.Code != InvalidParams {
		t.Errorf("expected InvalidParams, got %d", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "Unknown tool") {
		t.Errorf("expected message containing 'Unknown tool', got %q", resp.Error.Message)
	}
}

func TestHandleRequest_ToolsCall_WrapsDocumentAsTextContent(t *testing.T) {
	t.Helper()
	s, incidents, _ := newTestServer()
	incidents.document = `{"error": "connection refused", "query_info": {"days": 7}}`
	params := `{"name":"search_wazuh_incidents","arguments":{}}`
	req := &Request{JSONRPC: "2.0", ID: "1", Method: "tools/call", Params: json.RawMessage(params)}

	resp := s.HandleRequest(context.Background(), req)

	// Tool failures are documents for the model, not protocol errors.
	text := textContent(t, resp)
	if text != incidents.document {
		t.Errorf("expected document passthrough, got %q", text)
	}
}
