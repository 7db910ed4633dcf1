// The stock-assistant command answers one question by letting the model
// call stock quote and weather forecast tools, then prints the final
// reply to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jonesrussell/incident-insight/internal/assistant"
	"github.com/jonesrussell/incident-insight/internal/client"
	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/llm"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

const defaultQuestion = "Jake bude zitra pocasi v Hradci Kralove?"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stock-assistant: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	question := flag.String("q", defaultQuestion, "question for the assistant")
	flag.Parse()

	cfg, err := config.LoadOrDefault(config.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The answer goes to stdout, logs to stderr.
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	llmClient, err := llm.NewClient(cfg.LLM, log)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}

	stocks := client.NewStocksClient(cfg.Stocks, log)
	weather := client.NewWeatherClient(cfg.Weather, log)

	answer, err := assistant.New(llmClient, stocks, weather, log).Answer(context.Background(), *question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
