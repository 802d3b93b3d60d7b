package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"stockwatch/internal/api"
	"stockwatch/internal/domain"
	"stockwatch/internal/intent"
	"stockwatch/internal/reply"
)

// Hint shown for empty input. Never sent to the backend.
const emptyInputHint = "Nhập mã cổ phiếu (ví dụ: FPT hôm nay, FPT 2026-08-15, FPT 7 ngày) hoặc đặt câu hỏi bất kỳ."

// Fallback when the chat backend responds without an answer field.
const noAnswerFallback = "Xin lỗi, tôi chưa hiểu câu hỏi của bạn. Vui lòng thử lại."

// Backend is the slice of the API client the dispatcher calls. Narrowed to
// an interface so tests can drive the dispatcher without HTTP.
type Backend interface {
	StockToday(ctx context.Context, symbol string) (*domain.StockInfo, error)
	StockYesterday(ctx context.Context, symbol string) (*domain.StockInfo, error)
	StockByDate(ctx context.Context, symbol, date string) (*domain.StockInfo, error)
	StockRange(ctx context.Context, symbol string, days int) (*domain.RangeSeries, error)
	ChatQuery(ctx context.Context, query, conversationID string) (*api.ChatQueryResponse, error)
	AppendChatHistory(ctx context.Context, query, reply string) error
}

var _ Backend = (*api.Client)(nil)

// Dispatcher turns raw chat input into a rendered reply. Typed lookups are
// mirrored into the server-side chat history; free-form questions are not,
// because /chat/query records them itself.
type Dispatcher struct {
	backend        Backend
	log            *slog.Logger
	conversationID string
}

// NewDispatcher creates a dispatcher over the given backend.
func NewDispatcher(backend Backend, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{backend: backend, log: logger.With("component", "chat")}
}

// Dispatch handles one user input and returns the rendered reply text.
//
// Backend-reported and validation failures become the reply itself, carrying
// the message verbatim, so the conversation continues. Only an auth failure
// is returned as an error: the caller must redirect to login.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) (string, error) {
	in := intent.Parse(raw)

	if in.Kind == intent.Empty {
		return emptyInputHint, nil
	}

	text, err := d.resolve(ctx, in)
	if err != nil {
		if api.IsAuthRequired(err) {
			return "", err
		}
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			d.log.Error("dispatch failed", "kind", in.Kind, "error", err)
			return "", fmt.Errorf("dispatching %s: %w", in.Kind, err)
		}
		// The message is already user-facing wording; it becomes the reply
		// and, below, is recorded like any other outcome.
		text = apiErr.Message
	}

	// Typed lookups bypass /chat/query, so mirror their outcome, success or
	// failure, into the history log. Best effort only; a failed mirror never
	// degrades the reply.
	if in.Kind != intent.FreeForm {
		if err := d.backend.AppendChatHistory(ctx, raw, text); err != nil {
			d.log.Warn("history mirror failed", "error", err)
		}
	}
	return text, nil
}

func (d *Dispatcher) resolve(ctx context.Context, in intent.Intent) (string, error) {
	switch in.Kind {
	case intent.Today:
		info, err := d.backend.StockToday(ctx, in.Symbol)
		if err != nil {
			return "", err
		}
		return reply.FormatStockInfo(in.Symbol+" hôm nay", info).Render(), nil

	case intent.Yesterday:
		info, err := d.backend.StockYesterday(ctx, in.Symbol)
		if err != nil {
			return "", err
		}
		return reply.FormatStockInfo(in.Symbol+" hôm qua", info).Render(), nil

	case intent.ByDate:
		info, err := d.backend.StockByDate(ctx, in.Symbol, in.Date)
		if err != nil {
			return "", err
		}
		return reply.FormatStockInfo(in.Symbol+" ngày "+in.Date, info).Render(), nil

	case intent.Range:
		series, err := d.backend.StockRange(ctx, in.Symbol, in.Days)
		if err != nil {
			return "", err
		}
		title := fmt.Sprintf("%s %d ngày gần nhất", in.Symbol, in.Days)
		return reply.FormatRangeSeries(title, series).Render(), nil

	default:
		resp, err := d.backend.ChatQuery(ctx, in.Query, d.conversationID)
		if err != nil {
			return "", err
		}
		if resp.ConversationID != "" {
			d.conversationID = resp.ConversationID
		}
		if strings.TrimSpace(resp.Answer) == "" {
			return reply.FormatFreeText(noAnswerFallback).Render(), nil
		}
		return reply.FormatFreeText(resp.Answer).Render(), nil
	}
}
