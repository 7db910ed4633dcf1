// The mcp-server command serves the incident search tools over the MCP
// protocol, speaking JSON-RPC on stdio by default or streamable HTTP when
// configured.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonesrussell/incident-insight/internal/api"
	"github.com/jonesrussell/incident-insight/internal/client"
	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/elasticsearch"
	"github.com/jonesrussell/incident-insight/internal/logger"
	"github.com/jonesrussell/incident-insight/internal/mcp"
	"github.com/jonesrussell/incident-insight/internal/service"
)

// maxLineBytes bounds one stdio request line.
const maxLineBytes = 1 << 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(config.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Stdout carries the protocol, so logs go to stderr.
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	esClient, err := elasticsearch.NewClient(ctx, cfg.Search, log)
	if err != nil {
		return fmt.Errorf("create search client: %w", err)
	}

	incidents := service.NewIncidentSearchService(esClient, cfg.Search.IndexPrefix, log)
	web := service.NewWebSearchService(client.NewWebSearchClient(cfg.WebSearch, log), log)
	server := mcp.NewServer(incidents, web, log)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		log.Info("Starting MCP server over HTTP", logger.String("address", cfg.Server.Address))
		return api.NewServer(server, cfg.Server, log).Run(ctx)
	case config.TransportStdio:
		log.Info("Starting MCP server on stdio")
		return serveStdio(ctx, server, log)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
	}
}

// serveStdio reads newline-delimited JSON-RPC requests from stdin and
// writes compact responses to stdout. A line that fails to parse is
// answered with a parse error and skipped; notifications produce no
// output at all.
func serveStdio(ctx context.Context, server *mcp.Server, log logger.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var request mcp.Request
		if err := json.Unmarshal(line, &request); err != nil {
			// The ID is unknown when the request never parsed; JSON-RPC
			// wants a string or number there, so zero stands in.
			sendParseError(encoder, log)
			continue
		}

		response := server.HandleRequest(ctx, &request)
		if response == nil || request.ID == nil {
			continue
		}
		if err := encoder.Encode(response); err != nil {
			log.Error("Failed to encode response", logger.Error(err))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func sendParseError(encoder *json.Encoder, log logger.Logger) {
	errorResponse := mcp.ErrorResponse{
		JSONRPC: "2.0",
		ID:      0,
		Error: mcp.ErrorObject{
			Code:    mcp.ParseError,
			Message: "Failed to parse request",
		},
	}
	if err := encoder.Encode(errorResponse); err != nil {
		log.Error("Failed to encode error response", logger.Error(err))
	}
}
