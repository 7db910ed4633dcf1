// The report-agent command runs the incident report pipeline once: it
// queries the incident index, derives summary statistics, asks the model
// for a written analysis, and lays everything out as a PDF.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonesrussell/incident-insight/internal/agent"
	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/elasticsearch"
	"github.com/jonesrussell/incident-insight/internal/llm"
	"github.com/jonesrussell/incident-insight/internal/logger"
	"github.com/jonesrussell/incident-insight/internal/pdf"
	"github.com/jonesrussell/incident-insight/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "report-agent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(config.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
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

	llmClient, err := llm.NewClient(cfg.LLM, log)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}

	writer := pdf.NewGenerator(cfg.Report.LogoPath, log)

	path, err := agent.New(incidents, llmClient, writer, cfg.Report, log).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
