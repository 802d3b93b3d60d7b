package api

import (
	"context"
	"strings"
)

// ChatQueryRequest is the body for POST /chat/query.
type ChatQueryRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatQueryResponse carries the assistant's free-form answer.
type ChatQueryResponse struct {
	Status
	Answer         string `json:"answer,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatHistoryEntry is one recorded question/answer pair.
type ChatHistoryEntry struct {
	ID        string `json:"id,omitempty"`
	Query     string `json:"query"`
	Reply     string `json:"reply"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// chatHistoryResponse wraps GET /chat/history.
type chatHistoryResponse struct {
	Status
	Data []ChatHistoryEntry `json:"data"`
}

// ChatQuery sends a free-form question to the chat backend.
func (c *Client) ChatQuery(ctx context.Context, query, conversationID string) (*ChatQueryResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("Thiếu câu hỏi")
	}
	var resp ChatQueryResponse
	req := ChatQueryRequest{Query: query, ConversationID: conversationID}
	if err := c.post(ctx, "/chat/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatHistory returns the recorded conversation log.
func (c *Client) ChatHistory(ctx context.Context) ([]ChatHistoryEntry, error) {
	var resp chatHistoryResponse
	if err := c.get(ctx, "/chat/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AppendChatHistory mirrors a question/answer pair into the server-side log.
// Used by the dispatcher for typed lookups, which bypass /chat/query.
func (c *Client) AppendChatHistory(ctx context.Context, query, reply string) error {
	var resp ChatQueryResponse
	return c.post(ctx, "/chat/history", ChatHistoryEntry{Query: query, Reply: reply}, &resp)
}
