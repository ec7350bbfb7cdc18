package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resaleMarket/business/feed"
	"resaleMarket/domain"
)

type FeedOracleConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FeedOracleClient calls the ranking functions through the database's
// HTTP RPC gateway (POST /rest/v1/rpc/<function>).
type FeedOracleClient struct {
	cfg    FeedOracleConfig
	client *http.Client
}

func NewFeedOracleClient(cfg FeedOracleConfig) *FeedOracleClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &FeedOracleClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type homeFeedParams struct {
	ListingID     *int64  `json:"p_listing_id"`
	Limit         int     `json:"p_limit"`
	Tag           *string `json:"p_tag"`
	TrendingLimit int     `json:"p_trending_limit"`
	Seed          *int64  `json:"p_seed"`
	Offset        int     `json:"p_offset"`
}

type searchFeedParams struct {
	UserID     *string `json:"p_supabase_user_id"`
	Query      string  `json:"p_search_query"`
	Limit      int     `json:"p_limit"`
	Offset     int     `json:"p_offset"`
	Seed       *int64  `json:"p_seed"`
	Gender     *string `json:"p_gender"`
	CategoryID *int64  `json:"p_category_id"`
}

type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (c *FeedOracleClient) RankCandidates(ctx context.Context, p feed.OracleParams) ([]domain.FeedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var (
		fn   string
		body any
	)
	switch p.Endpoint {
	case feed.EndpointHome:
		fn = "get_home_feed"
		body = homeFeedParams{
			Limit:         p.Limit,
			Tag:           optional(p.Tag),
			TrendingLimit: p.TrendingLimit,
			Seed:          p.Seed,
			Offset:        p.Offset,
		}
	case feed.EndpointSearch:
		fn = "get_search_feed"
		body = searchFeedParams{
			UserID:     optional(p.UserID),
			Query:      p.Query,
			Limit:      p.Limit,
			Offset:     p.Offset,
			Seed:       p.Seed,
			Gender:     optional(p.Gender),
			CategoryID: p.CategoryID,
		}
	default:
		return nil, &feed.OracleError{Code: feed.CodeFatal, Message: fmt.Sprintf("unknown endpoint %q", p.Endpoint)}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rpc params: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/rest/v1/rpc/" + fn
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, &feed.OracleError{Code: feed.CodeTimeout, Message: err.Error(), Err: err}
		}
		return nil, &feed.OracleError{Code: feed.CodeFatal, Message: err.Error(), Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &feed.OracleError{Code: feed.CodeFatal, Message: "failed to read rpc response", Err: err}
	}

	if res.StatusCode >= http.StatusBadRequest {
		return nil, statusError(res.StatusCode, raw)
	}

	var rows []domain.FeedRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &feed.OracleError{Code: feed.CodeFatal, Message: "malformed rpc response", Err: err}
	}

	for i := range rows {
		if rows[i].Tags == nil {
			rows[i].Tags = []string{}
		}
	}

	return rows, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func statusError(status int, body []byte) error {
	var ge gatewayError
	_ = json.Unmarshal(body, &ge)

	msg := ge.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	code := feed.CodeFatal
	switch status {
	case http.StatusTooManyRequests:
		code = feed.CodeRateLimited
	case http.StatusServiceUnavailable:
		code = feed.CodeOverloaded
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		code = feed.CodeTimeout
	}

	return &feed.OracleError{Code: code, Message: fmt.Sprintf("status %d: %s", status, msg)}
}

var _ feed.RankingOracle = (*FeedOracleClient)(nil)
