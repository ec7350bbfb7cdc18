package feed

import (
	"context"

	"resaleMarket/domain"
)

// Endpoint identifies which ranking function a call targets.
type Endpoint string

const (
	EndpointHome   Endpoint = "home"
	EndpointSearch Endpoint = "search"
)

// OracleParams carries everything the ranking functions accept. Zero values
// map to SQL NULL where the function treats the parameter as optional.
type OracleParams struct {
	Endpoint Endpoint

	UserID     string
	Query      string
	Tag        string
	Gender     string
	CategoryID *int64

	Limit         int
	Offset        int
	TrendingLimit int
	Seed          *int64
}

// RankingOracle is the database-side ranking function. It returns one
// window of candidates for the given seed and offset; the union of windows
// over increasing offsets is the full candidate set with no duplicates.
type RankingOracle interface {
	RankCandidates(ctx context.Context, params OracleParams) ([]domain.FeedRow, error)
}

// ListingFilter drives the plain recency-ordered search used when the
// oracle is bypassed or unavailable.
type ListingFilter struct {
	Query        string
	CategoryName string
	Gender       string // already normalised, empty means no filter
	Limit        int
	Offset       int
}

type ListingRepository interface {
	SearchListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, int64, error)
}
