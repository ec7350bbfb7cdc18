package feed

import "resaleMarket/domain"

// Tally counts items per source bucket. Sources other than trending, brand
// and tag are not counted.
func Tally(items []domain.FeedRow) domain.BucketTally {
	var t domain.BucketTally
	for _, it := range items {
		switch it.Source {
		case domain.SourceTrending:
			t.Trending++
		case domain.SourceBrand:
			t.Brand++
		case domain.SourceTag:
			t.Tag++
		}
	}
	return t
}

func recordSources(endpoint Endpoint, items []domain.FeedRow) {
	for _, it := range items {
		src := it.Source
		if src == "" {
			src = "unknown"
		}
		FeedItemsBySourceTotal.WithLabelValues(string(endpoint), src).Inc()
	}
}
