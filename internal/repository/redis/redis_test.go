package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"resaleMarket/domain"

	"github.com/redis/go-redis/v9"
)

// Requires a Redis instance on localhost:6379, skipped otherwise.
func TestFeedCacheRepository_RoundTrip(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.Close()

	ctx = context.Background()
	repo := NewFeedCacheRepository(client, time.Minute)
	key := "test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer client.Del(ctx, feedKeyPrefix+key)

	if _, ok := repo.Get(ctx, key); ok {
		t.Fatal("expected miss before put")
	}

	seed := int64(7)
	title := "Nike Air Force 1"
	repo.Put(ctx, key, domain.HomeFeedResponse{
		Items: []domain.FeedRow{{ID: 1, Title: &title, Source: domain.SourceTrending, Tags: []string{"nike"}}},
		Meta: domain.HomeFeedMeta{
			Buckets: domain.BucketTally{Trending: 1},
			Page:    1,
			Limit:   20,
			SeedID:  &seed,
		},
		Cached: true,
	})

	got, ok := repo.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got.Cached {
		t.Error("stored payload should not carry the cached flag")
	}
	if len(got.Items) != 1 || *got.Items[0].Title != title || got.Meta.Buckets.Trending != 1 || *got.Meta.SeedID != 7 {
		t.Errorf("unexpected round trip %+v", got)
	}

	ttl, err := client.TTL(ctx, feedKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want within (0, 1m]", ttl)
	}
}

// Requires a Redis instance on localhost:6379, skipped otherwise.
func TestFeedCacheRepository_CorruptEntryIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.Close()

	ctx = context.Background()
	repo := NewFeedCacheRepository(client, time.Minute)
	key := "corrupt-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer client.Del(ctx, feedKeyPrefix+key)

	if err := client.Set(ctx, feedKeyPrefix+key, "{not json", time.Minute).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, ok := repo.Get(ctx, key); ok {
		t.Error("corrupt entry should read as a miss")
	}
}
