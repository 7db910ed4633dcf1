// Package mcp implements a JSON-RPC 2.0 MCP server exposing the incident
// search and web search tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// protocolVersion is the MCP protocol revision this server speaks.
const protocolVersion = "2024-11-05"

const (
	serverName    = "incident-insight-mcp"
	serverVersion = "1.0.0"
)

// IncidentSearcher renders an incident search as one JSON document.
// Failures come back as error documents, never as Go errors, so the
// calling model always receives something it can read.
type IncidentSearcher interface {
	SearchDocument(ctx context.Context, params domain.SearchParams) string
}

// WebSearcher renders a web search as one JSON document.
type WebSearcher interface {
	SearchDocument(ctx context.Context, params domain.WebSearchParams) string
}

// Server handles MCP protocol requests.
type Server struct {
	incidents IncidentSearcher
	web       WebSearcher
	log       logger.Logger
}

// NewServer creates a new MCP server.
func NewServer(incidents IncidentSearcher, web WebSearcher, log logger.Logger) *Server {
	return &Server{
		incidents: incidents,
		web:       web,
		log:       log,
	}
}

// HandleRequest processes an MCP request and returns a response.
// Returns nil for notifications (requests without ID) - they don't
// require responses.
func (s *Server) HandleRequest(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.ID)
	case "tools/list":
		return s.handleToolsList(req.ID)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  json.RawMessage(`"pong"`),
		}
	}

	// Unknown method - only return an error if this was a request (has
	// ID). Notifications don't get responses.
	if req.ID == nil {
		return nil
	}

	return s.errorResponse(req.ID, MethodNotFound, "Method not found")
}

// handleInitialize answers the protocol handshake.
func (s *Server) handleInitialize(id any) *Response {
	result := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
	}

	return s.resultResponse(id, result)
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(id any) *Response {
	return s.resultResponse(id, map[string]any{
		"tools": getAllTools(),
	})
}

// handleToolsCall routes a tool call to its handler.
func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, InvalidParams, "Invalid parameters")
	}

	s.log.Debug("Tool call received", logger.String("tool", params.Name))

	switch params.Name {
	case "search_wazuh_incidents":
		return s.handleSearchIncidents(ctx, req.ID, params.Arguments)
	case "web_search":
		return s.handleWebSearch(ctx, req.ID, params.Arguments)
	default:
		return s.errorResponse(req.ID, InvalidParams, "Unknown tool: "+params.Name)
	}
}

// resultResponse marshals data into the result member of a response.
func (s *Server) resultResponse(id any, data any) *Response {
	resultJSON, err := json.Marshal(data)
	if err != nil {
		return s.errorResponse(id, InternalError, fmt.Sprintf("Failed to marshal result: %v", err))
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  json.RawMessage(resultJSON),
	}
}

// textResponse wraps an already-rendered document as a single text
// content block. Error documents travel this way too; tool failures are
// data for the model, not protocol errors.
func (s *Server) textResponse(id any, text string) *Response {
	return s.resultResponse(id, map[string]any{
		"content": []map[string]any{
			{
				"type": "text",
				"text": text,
			},
		},
		"isError": false,
	})
}

func (s *Server) errorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &ErrorObject{
			Code:    code,
			Message: message,
		},
	}
}
