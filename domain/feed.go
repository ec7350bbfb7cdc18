package domain

// Candidate sources reported by the ranking function.
const (
	SourceTrending     = "trending"
	SourceBrand        = "brand"
	SourceTag          = "tag"
	SourcePersonalized = "personalized"
	SourceFallback     = "fallback"
)

// FeedRow is one candidate as returned by get_home_feed / get_search_feed.
type FeedRow struct {
	ID              int64    `json:"id"`
	Title           *string  `json:"title"`
	ImageURL        *string  `json:"image_url"`
	PriceCents      *int64   `json:"price_cents"`
	Brand           *string  `json:"brand"`
	Tags            []string `json:"tags"`
	Source          string   `json:"source"`
	FairScore       *float64 `json:"fair_score"`
	FinalScore      *float64 `json:"final_score"`
	IsBoosted       *bool    `json:"is_boosted,omitempty"`
	BoostWeight     *float64 `json:"boost_weight,omitempty"`
	SearchRelevance *float64 `json:"search_relevance,omitempty"`
}

type BucketTally struct {
	Trending int `json:"trending"`
	Brand    int `json:"brand"`
	Tag      int `json:"tag"`
}

type HomeFeedMeta struct {
	Buckets BucketTally `json:"buckets"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	SeedID  *int64      `json:"seedId"`
	Cached  bool        `json:"cached"`
}

// HomeFeedResponse is the home feed body. Cached is set only on cache hits,
// Error only on the degraded 503 body.
type HomeFeedResponse struct {
	Items  []FeedRow    `json:"items"`
	Meta   HomeFeedMeta `json:"meta"`
	Cached bool         `json:"cached,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type SellerSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Avatar       string  `json:"avatar"`
	Rating       float64 `json:"rating"`
	Sales        int     `json:"sales"`
	IsPremium    bool    `json:"isPremium"`
	IsPremiumRaw bool    `json:"is_premium"`
}

// FeedItem is the single item shape returned by search regardless of which
// path produced it.
type FeedItem struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       *string       `json:"description"`
	Price             float64       `json:"price"`
	Brand             *string       `json:"brand"`
	Size              *string       `json:"size"`
	Condition         *string       `json:"condition"`
	Material          *string       `json:"material"`
	Tags              []string      `json:"tags"`
	Category          *string       `json:"category"`
	Images            []string      `json:"images"`
	ShippingOption    *string       `json:"shippingOption"`
	ShippingFee       float64       `json:"shippingFee"`
	Location          *string       `json:"location"`
	LikesCount        int           `json:"likesCount"`
	AvailableQuantity int           `json:"availableQuantity"`
	Gender            string        `json:"gender"`
	Seller            SellerSummary `json:"seller"`
	CreatedAt         *string       `json:"createdAt"`
	UpdatedAt         *string       `json:"updatedAt"`

	Source          string   `json:"source"`
	FairScore       *float64 `json:"fair_score"`
	FinalScore      *float64 `json:"final_score"`
	IsBoosted       *bool    `json:"is_boosted"`
	BoostWeight     *float64 `json:"boost_weight"`
	SearchRelevance *float64 `json:"search_relevance"`
}

type SearchResult struct {
	Items       []FeedItem `json:"items"`
	Total       int64      `json:"total"`
	HasMore     bool       `json:"hasMore"`
	Page        int        `json:"page"`
	Limit       int        `json:"limit"`
	SearchQuery string     `json:"searchQuery"`
	UseFeed     bool       `json:"useFeed"`
}
