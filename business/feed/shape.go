package feed

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"resaleMarket/domain"
	"resaleMarket/pkg/logger"
)

const defaultGender = "Unisex"

// NormalizeGender maps loose client input onto the stored gender values.
// The second result is false when the input is not recognised.
func NormalizeGender(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "men", "male":
		return "Men", true
	case "women", "female":
		return "Women", true
	case "unisex", "all":
		return "Unisex", true
	default:
		return "", false
	}
}

func titleGender(value *string) string {
	if value == nil || *value == "" {
		return defaultGender
	}
	r := []rune(strings.ToLower(*value))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// StringList decodes a jsonb column that should hold a list of strings.
// Accepted forms: a JSON array, a JSON string containing an array, or an
// object whose values are all strings. Non-string and empty entries are
// dropped. Anything else, malformed input included, yields an empty list.
func StringList(raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("feed_malformed_json_list", "error", err)
		return out
	}

	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			logger.Warn("feed_malformed_json_list", "error", err)
			return out
		}
	}

	switch vv := v.(type) {
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k, item := range vv {
			if _, ok := item.(string); !ok {
				return []string{}
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := vv[k].(string); s != "" {
				out = append(out, s)
			}
		}
	}

	return out
}

// ImageList prefers the stored image array and falls back to the single
// image url when the array is empty.
func ImageList(imageURLs []byte, imageURL *string) []string {
	images := StringList(imageURLs)
	if len(images) > 0 {
		return images
	}
	if imageURL != nil && strings.TrimSpace(*imageURL) != "" {
		return []string{*imageURL}
	}
	return []string{}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

// shapeRow converts an oracle candidate into the public item shape. The
// oracle does not return listing details, so those fields are empty and the
// seller is the zero summary.
func shapeRow(row domain.FeedRow, requestGender string) domain.FeedItem {
	title := ""
	if row.Title != nil {
		title = *row.Title
	}

	var price float64
	if row.PriceCents != nil {
		price = float64(*row.PriceCents) / 100
	}

	brand := ""
	if row.Brand != nil {
		brand = *row.Brand
	}

	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}

	gender := requestGender
	if gender == "" {
		gender = defaultGender
	}

	isBoosted := row.IsBoosted != nil && *row.IsBoosted

	return domain.FeedItem{
		ID:                strconv.FormatInt(row.ID, 10),
		Title:             title,
		Price:             price,
		Brand:             &brand,
		Tags:              tags,
		Images:            ImageList(nil, row.ImageURL),
		AvailableQuantity: 1,
		Gender:            gender,
		Source:            row.Source,
		FairScore:         row.FairScore,
		FinalScore:        row.FinalScore,
		IsBoosted:         &isBoosted,
		BoostWeight:       row.BoostWeight,
		SearchRelevance:   row.SearchRelevance,
	}
}

// shapeListing converts a stored listing into the public item shape. Feed
// metadata stays null apart from the source.
func shapeListing(l domain.Listing) domain.FeedItem {
	item := domain.FeedItem{
		ID:                strconv.FormatInt(l.ID, 10),
		Title:             l.Name,
		Description:       l.Description,
		Price:             l.Price,
		Brand:             l.Brand,
		Size:              l.Size,
		Condition:         l.ConditionType,
		Material:          l.Material,
		Tags:              StringList(l.Tags),
		Images:            ImageList(l.ImageURLs, l.ImageURL),
		ShippingOption:    l.ShippingOption,
		Location:          l.Location,
		LikesCount:        l.LikesCount,
		AvailableQuantity: 1,
		Gender:            titleGender(l.Gender),
		CreatedAt:         formatTime(l.CreatedAt),
		UpdatedAt:         formatTime(l.UpdatedAt),
		Source:            domain.SourceFallback,
	}

	if l.Category != nil {
		name := l.Category.Name
		item.Category = &name
	}
	if l.ShippingFee != nil {
		item.ShippingFee = *l.ShippingFee
	}
	if l.InventoryCount != nil {
		item.AvailableQuantity = *l.InventoryCount
	}
	if l.Seller != nil {
		item.Seller = sellerSummary(*l.Seller)
	}

	return item
}

func sellerSummary(u domain.User) domain.SellerSummary {
	s := domain.SellerSummary{
		ID:           u.ID,
		Name:         u.Username,
		IsPremium:    u.IsPremium,
		IsPremiumRaw: u.IsPremium,
	}
	if u.AvatarURL != nil {
		s.Avatar = *u.AvatarURL
	}
	if u.AverageRating != nil {
		s.Rating = *u.AverageRating
	}
	if u.TotalReviews != nil {
		s.Sales = *u.TotalReviews
	}
	return s
}
