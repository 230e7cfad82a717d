package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetUserCountsQueryHandler counts the stored profiles.
type GetUserCountsQueryHandler struct {
	profiles ports.ProfileRepository
}

// NewGetUserCountsQueryHandler creates a handler counting profiles in profiles.
func NewGetUserCountsQueryHandler(profiles ports.ProfileRepository) GetUserCountsQueryHandler {
	return GetUserCountsQueryHandler{profiles: profiles}
}

func (h GetUserCountsQueryHandler) Handle(ctx context.Context, query GetUserCountsQuery) (GetUserCountsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetUserCountsQueryResponse{}, err
	}

	total, withPhone, err := h.profiles.Count(ctx)
	if err != nil {
		return GetUserCountsQueryResponse{}, err
	}
	return GetUserCountsQueryResponse{Total: total, WithPhone: withPhone}, nil
}
