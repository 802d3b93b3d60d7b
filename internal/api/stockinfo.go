package api

import (
	"context"
	"strings"

	"stockwatch/internal/domain"
)

// stockInfoPayload mirrors the backend's field naming for a single lookup.
type stockInfoPayload struct {
	Symbol           string   `json:"symbol"`
	Date             string   `json:"date"`
	OpenTime         string   `json:"openTime"`
	CloseTime        string   `json:"closeTime"`
	OpenPrice        *float64 `json:"openPrice"`
	ClosePrice       *float64 `json:"closePrice"`
	HighPrice        *float64 `json:"highPrice"`
	LowPrice         *float64 `json:"lowPrice"`
	Volume           *float64 `json:"volume"`
	Value            *float64 `json:"value"`
	ReferencePrice   *float64 `json:"referencePrice"`
	CeilingPrice     *float64 `json:"ceilingPrice"`
	FloorPrice       *float64 `json:"floorPrice"`
	PriceChange      *float64 `json:"priceChange"`
	PriceChangePct   *float64 `json:"priceChangePercent"`
	RSI14            *float64 `json:"rsi14"`
	RSIStatus        string   `json:"rsiStatus"`
	LiquidityCompare string   `json:"liquidityCompare"`
	Recommendation   string   `json:"recommendation"`
	Analysis         string   `json:"analysis"`
}

func (p stockInfoPayload) toInfo() *domain.StockInfo {
	return &domain.StockInfo{
		Quote: domain.Quote{
			Symbol:        strings.ToUpper(p.Symbol),
			Date:          p.Date,
			Open:          p.OpenPrice,
			High:          p.HighPrice,
			Low:           p.LowPrice,
			Close:         p.ClosePrice,
			Change:        p.PriceChange,
			PercentChange: p.PriceChangePct,
			Volume:        p.Volume,
			Value:         p.Value,
		},
		OpenTime:         p.OpenTime,
		CloseTime:        p.CloseTime,
		ReferencePrice:   p.ReferencePrice,
		CeilingPrice:     p.CeilingPrice,
		FloorPrice:       p.FloorPrice,
		RSI14:            p.RSI14,
		RSIStatus:        p.RSIStatus,
		LiquidityCompare: p.LiquidityCompare,
		Recommendation:   p.Recommendation,
		Analysis:         p.Analysis,
	}
}

type stockInfoResponse struct {
	Status
	Data *stockInfoPayload `json:"data"`
}

type stockRangeResponse struct {
	Status
	Symbol string             `json:"symbol"`
	Days   int                `json:"days"`
	Total  int                `json:"total"`
	Rows   []stockInfoPayload `json:"rows"`
}

type stockInfoRequest struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date,omitempty"`
	Days   int    `json:"days,omitempty"`
}

func (c *Client) stockInfo(ctx context.Context, path, symbol, date string, days int) (*domain.StockInfo, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	var resp stockInfoResponse
	req := stockInfoRequest{Symbol: symbol, Date: date, Days: days}
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &Error{Kind: KindNetworkOrUnknown, Message: msgGeneric}
	}
	return resp.Data.toInfo(), nil
}

// StockToday looks up today's session for a symbol.
func (c *Client) StockToday(ctx context.Context, symbol string) (*domain.StockInfo, error) {
	return c.stockInfo(ctx, "/stock-info", symbol, "", 0)
}

// StockYesterday looks up the previous session for a symbol.
func (c *Client) StockYesterday(ctx context.Context, symbol string) (*domain.StockInfo, error) {
	return c.stockInfo(ctx, "/stock-info/yesterday", symbol, "", 0)
}

// StockByDate looks up one specific trading date (YYYY-MM-DD).
func (c *Client) StockByDate(ctx context.Context, symbol, date string) (*domain.StockInfo, error) {
	if date == "" {
		return nil, validationError("Thiếu ngày (YYYY-MM-DD)")
	}
	return c.stockInfo(ctx, "/stock-info/by-date", symbol, date, 0)
}

// StockRange looks up the last N trading days for a symbol.
func (c *Client) StockRange(ctx context.Context, symbol string, days int) (*domain.RangeSeries, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	if days <= 0 {
		return nil, validationError("Số ngày không hợp lệ")
	}
	var resp stockRangeResponse
	if err := c.post(ctx, "/stock-info/range", stockInfoRequest{Symbol: symbol, Days: days}, &resp); err != nil {
		return nil, err
	}

	series := &domain.RangeSeries{
		Symbol: strings.ToUpper(resp.Symbol),
		Days:   resp.Days,
		Total:  resp.Total,
		Rows:   make([]domain.Quote, 0, len(resp.Rows)),
	}
	if series.Symbol == "" {
		series.Symbol = strings.ToUpper(symbol)
	}
	if series.Days == 0 {
		series.Days = days
	}
	for _, row := range resp.Rows {
		series.Rows = append(series.Rows, row.toInfo().Quote)
	}
	if series.Total == 0 {
		series.Total = len(series.Rows)
	}
	return series, nil
}
