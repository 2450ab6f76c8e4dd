package magicsearch

import (
	"context"
	"fmt"
	"net/http"
)

// GetCard fetches one card by id.
func (c *Client) GetCard(ctx context.Context, id int64) (Card, error) {
	var out Card
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/cards/%d", id), nil, &out); err != nil {
		return Card{}, err
	}
	return out, nil
}

// SearchByName returns every card with the exact name.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Card, error) {
	var out cardList
	path := "/api/v1/cards" + query(map[string]string{"name": name})
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SearchByFilters returns the cards satisfying every filter.
func (c *Client) SearchByFilters(ctx context.Context, filters []Filter) ([]Card, error) {
	req := struct {
		Filters []Filter `json:"filters"`
	}{Filters: filters}

	var out cardList
	if err := c.do(ctx, http.MethodPost, "/api/v1/cards/search", req, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SemanticSearch returns the k nearest cards to the query text by embedding
// distance. k <= 0 uses the server default.
func (c *Client) SemanticSearch(ctx context.Context, queryText string, k int) ([]SemanticResult, error) {
	req := struct {
		Query string `json:"query"`
		K     int    `json:"k"`
	}{Query: queryText, K: k}

	var out semanticList
	if err := c.do(ctx, http.MethodPost, "/api/v1/cards/semantic", req, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateCard inserts a card (admin only). The returned card carries the
// assigned id.
func (c *Client) CreateCard(ctx context.Context, card Card) (Card, error) {
	var out Card
	if err := c.do(ctx, http.MethodPost, "/api/v1/cards", card, &out); err != nil {
		return Card{}, err
	}
	return out, nil
}

// UpdateCard rewrites a card by id (admin only).
func (c *Client) UpdateCard(ctx context.Context, id int64, card Card) (Card, error) {
	var out Card
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/cards/%d", id), card, &out); err != nil {
		return Card{}, err
	}
	return out, nil
}

// DeleteCard removes a card by id (admin only).
func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/cards/%d", id), nil, nil)
}
