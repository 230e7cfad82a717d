// Package queries contains the read operations behind the admin surfaces: user
// counts and order lookups. Queries never change state.
package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetUserCountsQueryIsNotConstructed = errors.New(
	"GetUserCountsQuery must be created via NewGetUserCountsQuery constructor",
)

// GetUserCountsQuery asks how many users the bot knows and how many shared a phone.
//
// Example:
//
//	query := queries.NewGetUserCountsQuery()
//	counts, err := queries.NewGetUserCountsQueryHandler(profiles).Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(messages.UserCounts(counts.Total, counts.WithPhone))
type GetUserCountsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUserCountsQuery creates the parameterless user count query.
func NewGetUserCountsQuery() GetUserCountsQuery {
	return GetUserCountsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetUserCountsQuery) Validate() error {
	return q.guard.Validate(ErrGetUserCountsQueryIsNotConstructed)
}

// GetUserCountsQueryResponse is the read model of GetUserCountsQuery.
type GetUserCountsQueryResponse struct {
	Total     int `json:"total"`
	WithPhone int `json:"with_phone"`
}
