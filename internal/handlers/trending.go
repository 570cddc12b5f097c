package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/trending-go/internal/invoke"
	"github.com/serroba/trending-go/internal/trending"
	"go.uber.org/zap"
)

// TrendingHandler exposes the record, query, and wipe operations.
type TrendingHandler struct {
	recorder   *trending.Recorder
	query      *trending.Query
	reconciler *trending.Reconciler
	functions  *invoke.Local
	logger     *zap.Logger
	now        func() time.Time
}

// NewTrendingHandler creates the trending HTTP handler.
func NewTrendingHandler(
	recorder *trending.Recorder,
	query *trending.Query,
	reconciler *trending.Reconciler,
	functions *invoke.Local,
	logger *zap.Logger,
) *TrendingHandler {
	return &TrendingHandler{
		recorder:   recorder,
		query:      query,
		reconciler: reconciler,
		functions:  functions,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the handler's time source.
func (h *TrendingHandler) WithClock(now func() time.Time) *TrendingHandler {
	h.now = now

	return h
}

// RecordInteraction persists one interaction and returns the trend list's
// refreshed ranking.
func (h *TrendingHandler) RecordInteraction(
	ctx context.Context, req *RecordInteractionRequest,
) (*RecordInteractionResponse, error) {
	itemID := strings.TrimSpace(req.Body.ItemID)
	if itemID == "" {
		return nil, huma.Error400BadRequest("itemId must not be empty")
	}

	list, err := h.recorder.Record(ctx, req.TrendListID, itemID)
	if err != nil {
		h.logger.Error("record interaction failed",
			zap.String("trend_list_id", req.TrendListID),
			zap.String("item_id", itemID),
			zap.Error(err),
		)

		return nil, recordError(err)
	}

	return &RecordInteractionResponse{Body: list}, nil
}

func recordError(err error) error {
	var (
		writeErr  *trending.RecordWriteError
		countErr  *trending.CountUpdateError
		invokeErr *trending.InvokeError
		parseErr  *trending.ResponseParseError
	)

	switch {
	case errors.As(err, &writeErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error writing increment record: %v", writeErr.Err))
	case errors.As(err, &countErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error updating count: %v", countErr.Err))
	case errors.As(err, &invokeErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error invoking GetTrendingItems from RecordInteraction: %v", invokeErr.Err))
	case errors.As(err, &parseErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error parsing response from GetTrendingItems: %v", parseErr.Err))
	default:
		// Config resolution failures surface their own message.
		return huma.Error500InternalServerError(err.Error())
	}
}

// GetTrendingItems returns the top-N items of a trend list, ranked by count
// descending.
func (h *TrendingHandler) GetTrendingItems(
	ctx context.Context, req *GetTrendingItemsRequest,
) (*GetTrendingItemsResponse, error) {
	list, err := h.query.Top(ctx, req.TrendListID, req.Limit)
	if err != nil {
		h.logger.Error("trending query failed",
			zap.String("trend_list_id", req.TrendListID),
			zap.Error(err),
		)

		return nil, queryError(err)
	}

	return &GetTrendingItemsResponse{Body: list}, nil
}

func queryError(err error) error {
	var (
		queryErr  *trending.QueryError
		formatErr *trending.FormatError
	)

	switch {
	case errors.As(err, &queryErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error reading counts: %v", queryErr.Err))
	case errors.As(err, &formatErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error formatting responseBody: %v", formatErr.Err))
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}

// WipeExpiredInteractions sweeps expired interaction records and reverses
// their count contributions.
func (h *TrendingHandler) WipeExpiredInteractions(
	ctx context.Context, _ *struct{},
) (*WipeExpiredResponse, error) {
	summary, err := h.reconciler.Reconcile(ctx, h.now())
	if err != nil {
		h.logger.Error("wipe expired interactions failed", zap.Error(err))

		return nil, wipeError(err)
	}

	body := "HAS REMOVED INTERACTIONS: NO"
	if summary.HasRemovals {
		body = "HAS REMOVED INTERACTIONS: YES"
	}

	return &WipeExpiredResponse{
		ContentType: "text/plain",
		Body:        []byte(body),
	}, nil
}

func wipeError(err error) error {
	var (
		scanErr   *trending.ScanError
		formatErr *trending.FormatError
		chainErr  *trending.ReconcileChainError
	)

	switch {
	case errors.As(err, &scanErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error scanning interactions: %v", scanErr.Err))
	case errors.As(err, &formatErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error formatting data %v", formatErr.Err))
	case errors.As(err, &chainErr):
		return huma.Error500InternalServerError(
			fmt.Sprintf("Error in removal promise chain %v", chainErr.Err))
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}

// InvokeFunction dispatches a raw invocation payload to a registered
// function, the endpoint peers reach through the HTTP invoker.
func (h *TrendingHandler) InvokeFunction(
	ctx context.Context, req *InvokeFunctionRequest,
) (*InvokeFunctionResponse, error) {
	reply, err := h.functions.Handle(ctx, req.Function, req.RawBody)
	if err != nil {
		if errors.Is(err, invoke.ErrUnknownFunction) {
			return nil, huma.Error404NotFound(err.Error())
		}

		return nil, huma.Error500InternalServerError(err.Error())
	}

	return &InvokeFunctionResponse{
		ContentType: "application/json",
		Body:        reply,
	}, nil
}
