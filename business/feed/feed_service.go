package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"resaleMarket/domain"
	"resaleMarket/pkg/logger"
	"resaleMarket/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const unavailableMessage = "Feed temporarily unavailable. Please try again shortly."

type HomeFeedRequest struct {
	UserID  string
	Seed    *int64
	Tag     string
	Limit   int
	Page    int
	NoStore bool
}

type SearchRequest struct {
	UserID     string
	Query      string
	Category   string
	CategoryID *int64
	Gender     string
	Limit      int
	Page       int
	Seed       *int64
	Mode       Mode
}

type FeedService struct {
	oracle   RankingOracle
	listings ListingRepository
	cache    ResponseCache
	cfg      Config

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewFeedService(oracle RankingOracle, listings ListingRepository, cache ResponseCache, cfg Config) *FeedService {
	return &FeedService{
		oracle:   oracle,
		listings: listings,
		cache:    cache,
		cfg:      cfg,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// HomeFeed serves the home feed from cache when possible, otherwise from the
// oracle. When the oracle cannot be reached the degraded body is returned
// together with ErrFeedUnavailable.
func (s *FeedService) HomeFeed(ctx context.Context, req HomeFeedRequest) (domain.HomeFeedResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.HomeFeedResponse{}, fmt.Errorf("context error: %w", err)
	}

	limit := s.cfg.normalizeLimit(req.Limit)
	page := normalizePage(req.Page)
	tid := TraceIDFromContext(ctx)
	key := CacheKey(req.Seed, req.Tag, limit)

	if req.NoStore {
		FeedCacheLookupsTotal.WithLabelValues("bypass").Inc()
	} else if cached, ok := s.cache.Get(ctx, key); ok {
		FeedCacheLookupsTotal.WithLabelValues("hit").Inc()
		cached.Cached = true
		logger.Debug("feed_home",
			"trace_id", tid,
			"cache", "hit",
			"key", key,
			"first_ids", firstIDs(cached.Items),
		)
		return cached, nil
	} else {
		FeedCacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	trendingLimit := limit
	if s.cfg.TrendingLimitCap > 0 && trendingLimit > s.cfg.TrendingLimitCap {
		trendingLimit = s.cfg.TrendingLimitCap
	}

	rows, err := s.rankWithRetry(ctx, OracleParams{
		Endpoint:      EndpointHome,
		UserID:        req.UserID,
		Tag:           req.Tag,
		Limit:         limit,
		Offset:        (page - 1) * limit,
		TrendingLimit: trendingLimit,
		Seed:          req.Seed,
	})
	if err != nil {
		logger.Error("feed_home_unavailable", "trace_id", tid, "error", err)
		return domain.HomeFeedResponse{
			Items: []domain.FeedRow{},
			Meta: domain.HomeFeedMeta{
				Page:   page,
				Limit:  limit,
				SeedID: req.Seed,
			},
			Error: unavailableMessage,
		}, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	items := orderWindow(rows, req.Seed)
	resp := domain.HomeFeedResponse{
		Items: items,
		Meta: domain.HomeFeedMeta{
			Buckets: Tally(items),
			Page:    page,
			Limit:   limit,
			SeedID:  req.Seed,
		},
	}
	recordSources(EndpointHome, items)

	if !req.NoStore {
		s.cache.Put(ctx, key, resp)
	}

	logger.Debug("feed_home",
		"trace_id", tid,
		"cache", "miss",
		"key", key,
		"buckets", resp.Meta.Buckets,
		"first_ids", firstIDs(items),
	)

	return resp, nil
}

// Search runs a personalised oracle search or the plain listing search,
// depending on the mode. Oracle failures degrade to the plain search.
func (s *FeedService) Search(ctx context.Context, req SearchRequest) (domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, fmt.Errorf("context error: %w", err)
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.SearchResult{}, ErrInvalidQuery
	}

	limit := s.cfg.normalizeLimit(req.Limit)
	page := normalizePage(req.Page)
	offset := (page - 1) * limit
	tid := TraceIDFromContext(ctx)

	if req.Mode != ModePersonalized {
		SearchFallbacksTotal.WithLabelValues("mode").Inc()
		return s.fallbackSearch(ctx, req, limit, offset)
	}

	seed := req.Seed
	if seed == nil {
		seed = s.defaultSeed()
	}

	rows, err := s.rankWithRetry(ctx, OracleParams{
		Endpoint:   EndpointSearch,
		UserID:     req.UserID,
		Query:      query,
		Gender:     req.Gender,
		CategoryID: req.CategoryID,
		Limit:      limit,
		Offset:     offset,
		Seed:       seed,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return domain.SearchResult{}, err
		}
		SearchFallbacksTotal.WithLabelValues("oracle_error").Inc()
		logger.Warn("feed_search_fallback", "trace_id", tid, "error", err)

		// A slow oracle may have used up the request deadline; the plain
		// search still gets its own budget.
		fallbackCtx := ctx
		if ctx.Err() != nil {
			budget := s.cfg.FallbackTimeout
			if budget <= 0 {
				budget = defaultFallbackTimeout
			}
			var cancel context.CancelFunc
			fallbackCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), budget)
			defer cancel()
		}
		return s.fallbackSearch(fallbackCtx, req, limit, offset)
	}

	rows = orderWindow(rows, seed)
	recordSources(EndpointSearch, rows)

	items := make([]domain.FeedItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, shapeRow(r, req.Gender))
	}

	logger.Debug("feed_search",
		"trace_id", tid,
		"query", query,
		"seed", *seed,
		"offset", offset,
		"count", len(items),
	)

	return domain.SearchResult{
		Items:       items,
		Total:       int64(len(items)),
		HasMore:     len(items) >= limit,
		Page:        page,
		Limit:       limit,
		SearchQuery: req.Query,
		UseFeed:     true,
	}, nil
}

func (s *FeedService) fallbackSearch(ctx context.Context, req SearchRequest, limit, offset int) (result domain.SearchResult, err error) {
	ctx, end := tracing.StartSpan(ctx, "feed.fallback",
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)
	defer func() { end(err) }()

	filter := ListingFilter{
		Query:        strings.TrimSpace(req.Query),
		CategoryName: strings.TrimSpace(req.Category),
		Limit:        limit,
		Offset:       offset,
	}
	if g, ok := NormalizeGender(req.Gender); ok {
		filter.Gender = g
	}

	listings, total, err := s.listings.SearchListings(ctx, filter)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("fallback search: %w", err)
	}

	items := make([]domain.FeedItem, 0, len(listings))
	for _, l := range listings {
		items = append(items, shapeListing(l))
	}
	FeedItemsBySourceTotal.WithLabelValues(string(EndpointSearch), domain.SourceFallback).Add(float64(len(items)))

	return domain.SearchResult{
		Items:       items,
		Total:       total,
		HasMore:     int64(offset+len(items)) < total,
		Page:        offset/limit + 1,
		Limit:       limit,
		SearchQuery: req.Query,
		UseFeed:     false,
	}, nil
}

// defaultSeed derives a seed from the clock, folded into the int32 range the
// ranking functions accept.
func (s *FeedService) defaultSeed() *int64 {
	v := s.now().UnixMilli() % math.MaxInt32
	return &v
}

func firstIDs(items []domain.FeedRow) []int64 {
	n := len(items)
	if n > 5 {
		n = 5
	}
	ids := make([]int64, 0, n)
	for _, it := range items[:n] {
		ids = append(ids, it.ID)
	}
	return ids
}
