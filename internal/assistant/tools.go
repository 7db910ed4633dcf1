package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jonesrussell/incident-insight/internal/client"
)

// Tool names exposed to the model.
const (
	toolStockPrice      = "get_stock_price"
	toolDividendDate    = "get_dividend_date"
	toolTomorrowWeather = "get_tomorrow_weather"
)

// StockReader supplies quotes for the stock tools.
type StockReader interface {
	CurrentPrice(ctx context.Context, ticker string) (*client.StockQuote, error)
	NextDividendDate(ctx context.Context, ticker string) (*client.DividendInfo, error)
}

// WeatherReader supplies forecasts for the weather tool.
type WeatherReader interface {
	TomorrowForecast(ctx context.Context, city string) (*client.TomorrowWeather, error)
}

func toolDefinitions() []anthropic.ToolUnionParam {
	tickerSchema := map[string]any{
		"ticker": map[string]any{
			"type":        "string",
			"description": "The ticker symbol for the stock, e.g. GOOG",
		},
	}

	stockPrice := anthropic.ToolParam{
		Name:        toolStockPrice,
		Description: anthropic.String("Use this function to get the current price of a stock."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: tickerSchema,
			Required:   []string{"ticker"},
		},
	}
	dividendDate := anthropic.ToolParam{
		Name:        toolDividendDate,
		Description: anthropic.String("Use this function to get the next dividend payment date of a stock."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: tickerSchema,
			Required:   []string{"ticker"},
		},
	}
	tomorrowWeather := anthropic.ToolParam{
		Name:        toolTomorrowWeather,
		Description: anthropic.String("Use this function to get tomorrow minimum and maximum temperature in specified city"),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"city_name": map[string]any{
					"type":        "string",
					"description": "Name of city",
				},
			},
			Required: []string{"city_name"},
		},
	}

	return []anthropic.ToolUnionParam{
		{OfTool: &stockPrice},
		{OfTool: &dividendDate},
		{OfTool: &tomorrowWeather},
	}
}

// dispatch runs one tool call and renders its result as the JSON document
// the model reads back.
func (a *Assistant) dispatch(ctx context.Context, name string, input json.RawMessage) (string, error) {
	switch name {
	case toolStockPrice:
		ticker, err := tickerArgument(name, input)
		if err != nil {
			return "", err
		}
		quote, err := a.stocks.CurrentPrice(ctx, ticker)
		if err != nil {
			return "", err
		}
		return marshalResult(quote)

	case toolDividendDate:
		ticker, err := tickerArgument(name, input)
		if err != nil {
			return "", err
		}
		dividend, err := a.stocks.NextDividendDate(ctx, ticker)
		if err != nil {
			return "", err
		}
		return marshalResult(dividend)

	case toolTomorrowWeather:
		var args struct {
			CityName string `json:"city_name"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return "", fmt.Errorf("decode %s arguments: %w", name, err)
		}
		forecast, err := a.weather.TomorrowForecast(ctx, args.CityName)
		if err != nil {
			return "", err
		}
		return marshalResult(forecast)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func tickerArgument(name string, input json.RawMessage) (string, error) {
	var args struct {
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("decode %s arguments: %w", name, err)
	}
	return args.Ticker, nil
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(data), nil
}
