package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"resaleMarket/business/feed"
	"resaleMarket/domain"
	"resaleMarket/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const feedKeyPrefix = "feed:home:"

// FeedCacheRepository shares home feed responses across instances. Redis
// failures are logged and read as misses so the feed keeps serving from the
// oracle.
type FeedCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCacheRepository(client *redis.Client, ttl time.Duration) *FeedCacheRepository {
	return &FeedCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *FeedCacheRepository) Get(ctx context.Context, key string) (domain.HomeFeedResponse, bool) {
	val, err := r.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("feed_cache_get_failed", "trace_id", feed.TraceIDFromContext(ctx), "key", key, "error", err)
		}
		return domain.HomeFeedResponse{}, false
	}

	var resp domain.HomeFeedResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		logger.Warn("feed_cache_decode_failed", "trace_id", feed.TraceIDFromContext(ctx), "key", key, "error", err)
		return domain.HomeFeedResponse{}, false
	}

	return resp, true
}

func (r *FeedCacheRepository) Put(ctx context.Context, key string, resp domain.HomeFeedResponse) {
	resp.Cached = false
	resp.Meta.Cached = false

	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warn("feed_cache_encode_failed", "key", key, "error", err)
		return
	}

	if err := r.client.Set(ctx, feedKeyPrefix+key, data, r.ttl).Err(); err != nil {
		logger.Warn("feed_cache_put_failed", "trace_id", feed.TraceIDFromContext(ctx), "key", key, "error", err)
	}
}

var _ feed.ResponseCache = (*FeedCacheRepository)(nil)
