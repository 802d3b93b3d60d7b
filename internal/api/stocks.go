package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"stockwatch/internal/domain"
)

// stockListResponse wraps the endpoints that return rows of per-symbol data.
type stockListResponse struct {
	Status
	Data []domain.StockSummary `json:"data"`
}

// candlePayload is one history bar as the backend serializes it.
type candlePayload struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// historyResponse wraps GET /stocks/history/:symbol.
type historyResponse struct {
	Status
	Symbol  string          `json:"symbol"`
	Candles []candlePayload `json:"candles"`
}

// indicesResponse wraps GET /stocks/indices.
type indicesResponse struct {
	Status
	Data []domain.IndexSummary `json:"data"`
}

// SearchStocks looks up symbols matching the query.
func (c *Client) SearchStocks(ctx context.Context, symbol string) ([]domain.StockSummary, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	q := url.Values{"symbol": {symbol}}
	var resp stockListResponse
	if err := c.get(ctx, "/stocks/search", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// StocksByCodes fetches quotes for several codes in one call.
func (c *Client) StocksByCodes(ctx context.Context, codes []string) ([]domain.StockSummary, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	q := url.Values{"codes": {strings.Join(codes, ",")}}
	var resp stockListResponse
	if err := c.get(ctx, "/stocks", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// TopGainers returns the session's strongest risers.
func (c *Client) TopGainers(ctx context.Context) ([]domain.StockSummary, error) {
	var resp stockListResponse
	if err := c.get(ctx, "/stocks/top-gainers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// TopLosers returns the session's strongest fallers.
func (c *Client) TopLosers(ctx context.Context) ([]domain.StockSummary, error) {
	var resp stockListResponse
	if err := c.get(ctx, "/stocks/top-losers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Indices returns market index snapshots (VN-Index, HNX-Index, ...).
func (c *Client) Indices(ctx context.Context) ([]domain.IndexSummary, error) {
	var resp indicesResponse
	if err := c.get(ctx, "/stocks/indices", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// History returns a symbol's daily candle series, oldest first.
func (c *Client) History(ctx context.Context, symbol string) ([]domain.Candle, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	var resp historyResponse
	if err := c.get(ctx, "/stocks/history/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, err
	}

	sym := resp.Symbol
	if sym == "" {
		sym = strings.ToUpper(symbol)
	}
	candles := make([]domain.Candle, 0, len(resp.Candles))
	for _, p := range resp.Candles {
		ts, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			continue
		}
		candles = append(candles, domain.Candle{
			Symbol:    sym,
			Timestamp: ts,
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		})
	}
	return candles, nil
}
