package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resaleMarket/domain"
)

type fakeOracle struct {
	mu      sync.Mutex
	catalog []domain.FeedRow
	errs    []error
	calls   []OracleParams
}

func (f *fakeOracle) RankCandidates(_ context.Context, p OracleParams) ([]domain.FeedRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, p)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	start := p.Offset
	if start > len(f.catalog) {
		start = len(f.catalog)
	}
	end := start + p.Limit
	if end > len(f.catalog) {
		end = len(f.catalog)
	}
	return append([]domain.FeedRow(nil), f.catalog[start:end]...), nil
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeListings struct {
	listings []domain.Listing
	total    int64
	err      error
	filters  []ListingFilter
}

func (f *fakeListings) SearchListings(_ context.Context, filter ListingFilter) ([]domain.Listing, int64, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.listings, f.total, nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func strPtr(s string) *string     { return &s }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

// nikeCatalog is a 28 item candidate set already in oracle order.
func nikeCatalog() []domain.FeedRow {
	sources := []string{domain.SourceTrending, domain.SourceBrand, domain.SourceTag, domain.SourcePersonalized}
	rows := make([]domain.FeedRow, 0, 28)
	for i := 0; i < 28; i++ {
		rows = append(rows, domain.FeedRow{
			ID:         int64(1001 + i),
			Title:      strPtr(fmt.Sprintf("Nike item %d", i+1)),
			ImageURL:   strPtr(fmt.Sprintf("https://cdn.example.com/nike/%d.jpg", i+1)),
			PriceCents: int64Ptr(int64(2500 + i*100)),
			Brand:      strPtr("Nike"),
			Tags:       []string{"nike", "sneakers"},
			Source:     sources[i%len(sources)],
			FairScore:  floatPtr(0.5),
			FinalScore: floatPtr(float64(100 - i)),
		})
	}
	return rows
}

type harness struct {
	svc      *FeedService
	oracle   *fakeOracle
	listings *fakeListings
	cache    *MemoryCache
	clock    *fakeClock
	slept    []time.Duration
}

func newHarness() *harness {
	h := &harness{
		oracle:   &fakeOracle{catalog: nikeCatalog()},
		listings: &fakeListings{},
		clock:    &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)},
	}
	cfg := DefaultConfig()
	h.cache = NewMemoryCache(cfg.CacheTTL, h.clock.Now)
	h.svc = NewFeedService(h.oracle, h.listings, h.cache, cfg)
	h.svc.now = h.clock.Now
	h.svc.sleep = func(ctx context.Context, d time.Duration) error {
		h.slept = append(h.slept, d)
		return ctx.Err()
	}
	return h
}
