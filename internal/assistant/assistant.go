// Package assistant answers ad hoc questions by letting the model call
// local stock and weather tools until it settles on a text reply.
package assistant

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jonesrussell/incident-insight/internal/llm"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// maxToolRounds caps the conversation so a model stuck on tool calls
// cannot loop forever.
const maxToolRounds = 8

// Converser is the slice of the LLM client the loop needs.
type Converser interface {
	Converse(ctx context.Context, messages []anthropic.MessageParam, tools []anthropic.ToolUnionParam) (*anthropic.Message, error)
}

// Assistant runs the tool-use conversation for one question at a time.
type Assistant struct {
	llm     Converser
	stocks  StockReader
	weather WeatherReader
	log     logger.Logger
}

// New returns an Assistant over the given model and tool backends.
func New(conv Converser, stocks StockReader, weather WeatherReader, log logger.Logger) *Assistant {
	return &Assistant{llm: conv, stocks: stocks, weather: weather, log: log}
}

// Answer sends the question to the model, executes every tool call it
// requests, and returns the final text reply.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
	}
	tools := toolDefinitions()

	for round := 0; round < maxToolRounds; round++ {
		message, err := a.llm.Converse(ctx, messages, tools)
		if err != nil {
			return "", err
		}

		toolResults := a.runTools(ctx, message)
		if len(toolResults) == 0 {
			return llm.TextContent(message), nil
		}

		messages = append(messages, message.ToParam())
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}

	return "", fmt.Errorf("no final answer after %d tool rounds", maxToolRounds)
}

// runTools executes every tool_use block of one assistant message. Tool
// failures are returned to the model as error results, not surfaced as Go
// errors, so the model can rephrase or recover.
func (a *Assistant) runTools(ctx context.Context, message *anthropic.Message) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion
	for _, block := range message.Content {
		if block.Type != "tool_use" {
			continue
		}

		a.log.Debug("Tool call requested",
			logger.String("tool", block.Name),
			logger.String("input", string(block.Input)))

		result, err := a.dispatch(ctx, block.Name, block.Input)
		isError := false
		if err != nil {
			a.log.Warn("Tool call failed",
				logger.String("tool", block.Name),
				logger.Error(err))
			result = err.Error()
			isError = true
		}

		results = append(results, anthropic.NewToolResultBlock(block.ID, result, isError))
	}
	return results
}
