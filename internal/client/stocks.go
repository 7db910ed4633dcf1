package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// StockQuote is the current price of one ticker.
type StockQuote struct {
	Ticker       string  `json:"ticker"`
	CurrentPrice float64 `json:"current_price"`
}

// DividendInfo is the next dividend payment date of one ticker.
type DividendInfo struct {
	Ticker       string `json:"ticker"`
	DividendDate string `json:"dividend_date"`
}

// StocksClient reads quotes from the Yahoo Finance quote summary API.
type StocksClient struct {
	log     logger.Logger
	client  *http.Client
	baseURL string
}

// NewStocksClient creates a stocks client from config.
func NewStocksClient(cfg config.StocksConfig, log logger.Logger) *StocksClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &StocksClient{
		log:     log,
		client:  NewHTTPClient(&TransportConfig{Timeout: cfg.Timeout}),
		baseURL: cfg.BaseURL,
	}
}

type quoteValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type quoteSummaryModules struct {
	Price struct {
		RegularMarketPrice *quoteValue `json:"regularMarketPrice"`
	} `json:"price"`
	CalendarEvents struct {
		DividendDate *quoteValue `json:"dividendDate"`
	} `json:"calendarEvents"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryModules `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// CurrentPrice returns the current market price of a ticker.
func (c *StocksClient) CurrentPrice(ctx context.Context, ticker string) (*StockQuote, error) {
	summary, err := c.quoteSummary(ctx, ticker, "price")
	if err != nil {
		return nil, err
	}
	price := summary.Price.RegularMarketPrice
	if price == nil {
		return nil, fmt.Errorf("no market price available for ticker %q", ticker)
	}
	return &StockQuote{Ticker: ticker, CurrentPrice: price.Raw}, nil
}

// NextDividendDate returns the upcoming dividend payment date of a ticker.
func (c *StocksClient) NextDividendDate(ctx context.Context, ticker string) (*DividendInfo, error) {
	summary, err := c.quoteSummary(ctx, ticker, "calendarEvents")
	if err != nil {
		return nil, err
	}
	dividend := summary.CalendarEvents.DividendDate
	if dividend == nil {
		return nil, fmt.Errorf("no dividend date available for ticker %q", ticker)
	}
	date := dividend.Fmt
	if date == "" {
		date = time.Unix(int64(dividend.Raw), 0).UTC().Format("2006-01-02")
	}
	return &DividendInfo{Ticker: ticker, DividendDate: date}, nil
}

func (c *StocksClient) quoteSummary(ctx context.Context, ticker, modules string) (*quoteSummaryModules, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker cannot be empty")
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(modules))

	resp, err := fetchJSON[quoteSummaryResponse](ctx, c.client, endpoint, "quote summary")
	if err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error for ticker %q: %s", ticker, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote data for ticker %q", ticker)
	}

	return &resp.QuoteSummary.Result[0], nil
}
