package rest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resaleMarket/business/feed"
	"resaleMarket/domain"
	"resaleMarket/internal/middleware"
	"resaleMarket/pkg/logger"
	"resaleMarket/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultFeedLimit = 20
	maxSeedID        = math.MaxInt32

	HeaderClientMode = "X-Client-Mode"
)

type (
	FeedHandler struct {
		feedService FeedService
		validator   *validator.Validate
		defaultMode feed.Mode
		cacheTTL    time.Duration
		timeout     time.Duration
	}

	FeedService interface {
		HomeFeed(ctx context.Context, req feed.HomeFeedRequest) (domain.HomeFeedResponse, error)
		Search(ctx context.Context, req feed.SearchRequest) (domain.SearchResult, error)
	}

	// Numeric parameters are bound as strings and parsed leniently so a bad
	// limit or page falls back to its default instead of failing the request.
	HomeFeedQuery struct {
		Limit     string `query:"limit"`
		Page      string `query:"page"`
		SeedID    string `query:"seedId"`
		Tag       string `query:"tag" validate:"max=64"`
		NoStore   string `query:"noStore"`
		CacheBust string `query:"cacheBust"`
	}

	SearchQuery struct {
		Q          string `query:"q" validate:"max=200"`
		Search     string `query:"search" validate:"max=200"`
		Category   string `query:"category" validate:"max=100"`
		CategoryID string `query:"categoryId"`
		Gender     string `query:"gender" validate:"max=20"`
		Limit      string `query:"limit"`
		Page       string `query:"page"`
		Seed       string `query:"seed"`
		Mode       string `query:"mode" validate:"omitempty,oneof=personalized basic"`
		UseFeed    string `query:"useFeed" validate:"omitempty,oneof=true false"`
	}

	searchResponse struct {
		Success bool                `json:"success"`
		Data    domain.SearchResult `json:"data"`
	}

	searchError struct {
		Error   string `json:"error"`
		Success bool   `json:"success"`
	}
)

func NewFeedHandler(svc FeedService, defaultMode feed.Mode, cacheTTL, timeout time.Duration) *FeedHandler {
	return &FeedHandler{
		feedService: svc,
		validator:   validator.New(),
		defaultMode: defaultMode,
		cacheTTL:    cacheTTL,
		timeout:     timeout,
	}
}

func (h *FeedHandler) Home(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.FeedRequestLatency.WithLabelValues("home"))
	defer timer.ObserveDuration()
	defer func() { countRequest("home", c) }()

	var q HomeFeedQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid query parameters"})
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid query parameters"})
	}

	req := feed.HomeFeedRequest{
		UserID:  middleware.UserID(c),
		Seed:    parseSeedID(q.SeedID),
		Tag:     strings.TrimSpace(q.Tag),
		Limit:   atLeastOne(q.Limit, defaultFeedLimit),
		Page:    atLeastOne(q.Page, 1),
		NoStore: q.NoStore == "1" || q.CacheBust != "",
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp, err := h.feedService.HomeFeed(ctx, req)

	if req.NoStore {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	} else {
		c.Response().Header().Set(echo.HeaderCacheControl,
			fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=10", int(h.cacheTTL.Seconds())))
	}
	c.Response().Header().Set(echo.HeaderVary, "seedId, page, tag")

	if err != nil {
		if errors.Is(err, feed.ErrFeedUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		logger.Error("feed_home_failed", "trace_id", feed.TraceIDFromContext(ctx), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load feed"})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *FeedHandler) Search(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.FeedRequestLatency.WithLabelValues("search"))
	defer timer.ObserveDuration()
	defer func() { countRequest("search", c) }()

	var q SearchQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, searchError{Error: "Invalid query parameters"})
	}

	query := q.Q
	if query == "" {
		query = q.Search
	}
	if strings.TrimSpace(query) == "" {
		return c.JSON(http.StatusBadRequest, searchError{Error: "Search query is required"})
	}

	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, searchError{Error: "Invalid query parameters"})
	}

	var categoryID *int64
	if q.CategoryID != "" {
		id, err := strconv.ParseInt(q.CategoryID, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, searchError{Error: "Invalid categoryId"})
		}
		categoryID = &id
	}

	req := feed.SearchRequest{
		UserID:     middleware.UserID(c),
		Query:      query,
		Category:   q.Category,
		CategoryID: categoryID,
		Gender:     q.Gender,
		Limit:      positiveInt(q.Limit, defaultFeedLimit),
		Page:       positiveInt(q.Page, 1),
		Seed:       parseSeedID(q.Seed),
		Mode:       h.resolveMode(q, c.Request().Header.Get(HeaderClientMode)),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.feedService.Search(ctx, req)
	if err != nil {
		if errors.Is(err, feed.ErrInvalidQuery) {
			return c.JSON(http.StatusBadRequest, searchError{Error: "Search query is required"})
		}
		logger.Error("feed_search_failed", "trace_id", feed.TraceIDFromContext(ctx), "error", err)
		return c.JSON(http.StatusInternalServerError, searchError{Error: "Failed to perform search"})
	}

	return c.JSON(http.StatusOK, searchResponse{Success: true, Data: res})
}

// resolveMode picks the search mode: explicit mode, then the legacy useFeed
// flag, then the client header, then the configured default.
func (h *FeedHandler) resolveMode(q SearchQuery, header string) feed.Mode {
	if m, ok := feed.ParseMode(q.Mode); ok {
		return m
	}
	switch q.UseFeed {
	case "true":
		return feed.ModePersonalized
	case "false":
		return feed.ModeBasic
	}
	if m, ok := feed.ParseMode(strings.ToLower(strings.TrimSpace(header))); ok {
		return m
	}
	return h.defaultMode
}

func countRequest(endpoint string, c echo.Context) {
	metrics.FeedRequests.WithLabelValues(endpoint, strconv.Itoa(c.Response().Status)).Inc()
}

// positiveInt parses s, returning def unless it is a positive integer.
// Values above MaxInt32 are clamped.
func positiveInt(s string, def int) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(s), "-") {
			return math.MaxInt32
		}
		return def
	}
	if n <= 0 {
		return def
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// atLeastOne parses s as a number, truncates it and clamps it to >= 1.
// Unparseable input yields def.
func atLeastOne(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return def
	}
	if f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// parseSeedID accepts any numeric seed and clamps it into [0, MaxInt32],
// the range of the ranking functions' seed parameter.
func parseSeedID(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	f = math.Trunc(f)
	if f < 0 {
		f = 0
	}
	if f > maxSeedID {
		f = maxSeedID
	}
	n := int64(f)
	return &n
}
