package api

import (
	"context"
	"net/url"

	"stockwatch/internal/domain"
)

// watchlistResponse wraps GET /watchlist.
type watchlistResponse struct {
	Status
	Data []domain.WatchlistEntry `json:"data"`
}

// watchlistMutationResponse wraps the watchlist write endpoints.
type watchlistMutationResponse struct {
	Status
	Data *domain.WatchlistEntry `json:"data,omitempty"`
}

// watchlistPayload is the body for watchlist writes.
type watchlistPayload struct {
	Symbol   string  `json:"symbol"`
	BuyPrice float64 `json:"buyPrice"`
	Note     string  `json:"note"`
}

// Watchlist returns the authenticated user's watchlist.
func (c *Client) Watchlist(ctx context.Context) ([]domain.WatchlistEntry, error) {
	var resp watchlistResponse
	if err := c.get(ctx, "/watchlist", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AddWatchlist adds a symbol with its recorded buy price.
func (c *Client) AddWatchlist(ctx context.Context, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error) {
	if symbol == "" {
		return nil, validationError("Thiếu mã cổ phiếu")
	}
	var resp watchlistMutationResponse
	if err := c.post(ctx, "/watchlist", watchlistPayload{Symbol: symbol, BuyPrice: buyPrice, Note: note}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateWatchlist updates an existing watchlist row by its backend ID.
func (c *Client) UpdateWatchlist(ctx context.Context, id, symbol string, buyPrice float64, note string) (*domain.WatchlistEntry, error) {
	if id == "" {
		return nil, validationError("Thiếu id danh mục")
	}
	var resp watchlistMutationResponse
	if err := c.put(ctx, "/watchlist/"+url.PathEscape(id), watchlistPayload{Symbol: symbol, BuyPrice: buyPrice, Note: note}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteWatchlist removes a watchlist row by its backend ID.
func (c *Client) DeleteWatchlist(ctx context.Context, id string) error {
	if id == "" {
		return validationError("Thiếu id danh mục")
	}
	var resp watchlistMutationResponse
	return c.delete(ctx, "/watchlist/"+url.PathEscape(id), &resp)
}
