package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/incident-insight/internal/mcp"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "incident-insight-mcp",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleMCP accepts one JSON-RPC request per POST and answers it in the
// response body. The transport is stateless; notifications are accepted
// with no body.
func (s *Server) handleMCP(c *gin.Context) {
	var req mcp.Request
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		// JSON-RPC requires the ID to be a string or number, so a
		// default stands in when the request never parsed.
		c.JSON(http.StatusOK, mcp.ErrorResponse{
			JSONRPC: "2.0",
			ID:      0,
			Error: mcp.ErrorObject{
				Code:    mcp.ParseError,
				Message: "Failed to parse request",
			},
		})
		return
	}

	resp := s.mcp.HandleRequest(c.Request.Context(), &req)
	if req.ID == nil || resp == nil {
		c.Status(http.StatusAccepted)
		return
	}

	c.JSON(http.StatusOK, resp)
}
