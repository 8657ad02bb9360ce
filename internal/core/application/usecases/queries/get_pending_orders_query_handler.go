package queries

import (
	"context"

	"hawker/internal/core/application/pending"
	"hawker/internal/core/events"
	"hawker/internal/pkg/errs"
)

// GetPendingOrdersQueryHandler reads the process-local pending cache.
type GetPendingOrdersQueryHandler struct {
	pendingCache *pending.Cache
}

// NewGetPendingOrdersQueryHandler creates a handler backed by the cache.
func NewGetPendingOrdersQueryHandler(pendingCache *pending.Cache) (GetPendingOrdersQueryHandler, error) {
	if pendingCache == nil {
		return GetPendingOrdersQueryHandler{}, errs.NewValueIsRequiredError("pendingCache")
	}

	return GetPendingOrdersQueryHandler{pendingCache: pendingCache}, nil
}

// Handle returns every cached pending order, oldest first.
func (h GetPendingOrdersQueryHandler) Handle(
	_ context.Context,
	query GetPendingOrdersQuery,
) ([]events.OrderSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.pendingCache.All(), nil
}
