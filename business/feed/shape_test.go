package feed

import (
	"testing"
	"time"

	"resaleMarket/domain"
)

func TestImageList(t *testing.T) {
	tests := []struct {
		name      string
		imageURLs string
		imageURL  *string
		want      []string
	}{
		{"json array", `["https://a/1.jpg","https://a/2.jpg"]`, nil, []string{"https://a/1.jpg", "https://a/2.jpg"}},
		{"drops non strings and blanks", `["https://a/1.jpg", 3, "", null]`, nil, []string{"https://a/1.jpg"}},
		{"json string of array", `"[\"https://a/1.jpg\"]"`, nil, []string{"https://a/1.jpg"}},
		{"object of strings", `{"b":"https://a/2.jpg","a":"https://a/1.jpg"}`, nil, []string{"https://a/1.jpg", "https://a/2.jpg"}},
		{"malformed json string", `"[not json"`, nil, []string{}},
		{"malformed raw json", `[not json`, nil, []string{}},
		{"malformed falls back to single url", `"[not json"`, strPtr("https://a/only.jpg"), []string{"https://a/only.jpg"}},
		{"empty array wraps single url", `[]`, strPtr("https://a/only.jpg"), []string{"https://a/only.jpg"}},
		{"blank single url", ``, strPtr("   "), []string{}},
		{"nothing", ``, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImageList([]byte(tt.imageURLs), tt.imageURL)
			if got == nil {
				t.Fatal("ImageList() returned nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ImageList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ImageList()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"men", "Men", true},
		{"Male", "Men", true},
		{"WOMEN", "Women", true},
		{"female", "Women", true},
		{"unisex", "Unisex", true},
		{"all", "Unisex", true},
		{"kids", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeGender(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeGender(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestShapeListing(t *testing.T) {
	created := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	avatar := "https://cdn/avatar.png"
	rating := 4.5
	reviews := 12
	fee := 7.5
	stock := 3

	item := shapeListing(domain.Listing{
		ID:             55,
		Name:           "Levi's 501",
		Description:    strPtr("Classic fit"),
		Price:          49.99,
		Brand:          strPtr("Levi's"),
		Tags:           []byte(`["denim","vintage"]`),
		ImageURL:       strPtr("https://cdn/501.jpg"),
		ImageURLs:      []byte(`"oops"`),
		Gender:         strPtr("WOMEN"),
		Category:       &domain.Category{ID: 3, Name: "Jeans"},
		Seller:         &domain.User{ID: 8, Username: "thrift_queen", AvatarURL: &avatar, AverageRating: &rating, TotalReviews: &reviews, IsPremium: true},
		ShippingFee:    &fee,
		InventoryCount: &stock,
		LikesCount:     4,
		CreatedAt:      &created,
	})

	if item.ID != "55" || item.Title != "Levi's 501" || item.Price != 49.99 {
		t.Errorf("unexpected basics %+v", item)
	}
	if item.Gender != "Women" {
		t.Errorf("Gender = %q, want Women", item.Gender)
	}
	if len(item.Images) != 1 || item.Images[0] != "https://cdn/501.jpg" {
		t.Errorf("Images = %v", item.Images)
	}
	if len(item.Tags) != 2 {
		t.Errorf("Tags = %v", item.Tags)
	}
	if item.Category == nil || *item.Category != "Jeans" {
		t.Errorf("Category = %v", item.Category)
	}
	want := domain.SellerSummary{ID: 8, Name: "thrift_queen", Avatar: avatar, Rating: 4.5, Sales: 12, IsPremium: true, IsPremiumRaw: true}
	if item.Seller != want {
		t.Errorf("Seller = %+v, want %+v", item.Seller, want)
	}
	if item.ShippingFee != 7.5 || item.AvailableQuantity != 3 || item.LikesCount != 4 {
		t.Errorf("unexpected shipping/stock %+v", item)
	}
	if item.CreatedAt == nil || *item.CreatedAt != "2025-02-01T10:30:00Z" || item.UpdatedAt != nil {
		t.Errorf("timestamps = %v, %v", item.CreatedAt, item.UpdatedAt)
	}
	if item.Source != domain.SourceFallback || item.FinalScore != nil || item.IsBoosted != nil {
		t.Errorf("feed metadata should be empty on fallback items: %+v", item)
	}
}

func TestShapeListing_Defaults(t *testing.T) {
	item := shapeListing(domain.Listing{ID: 1, Name: "Scarf"})

	if item.Gender != "Unisex" {
		t.Errorf("Gender = %q, want Unisex", item.Gender)
	}
	if item.Seller != (domain.SellerSummary{}) {
		t.Errorf("Seller = %+v, want zero", item.Seller)
	}
	if item.AvailableQuantity != 1 {
		t.Errorf("AvailableQuantity = %d, want 1", item.AvailableQuantity)
	}
	if item.Images == nil || item.Tags == nil {
		t.Error("images and tags should be empty slices, not nil")
	}
}

func TestShapeRow(t *testing.T) {
	item := shapeRow(domain.FeedRow{
		ID:          9,
		PriceCents:  int64Ptr(12345),
		Source:      domain.SourcePersonalized,
		IsBoosted:   func() *bool { b := true; return &b }(),
		BoostWeight: floatPtr(1.5),
	}, "")

	if item.Price != 123.45 {
		t.Errorf("Price = %v, want 123.45", item.Price)
	}
	if item.Gender != "Unisex" {
		t.Errorf("Gender = %q, want Unisex", item.Gender)
	}
	if item.Title != "" || len(item.Images) != 0 || len(item.Tags) != 0 {
		t.Errorf("unexpected empties %+v", item)
	}
	if item.IsBoosted == nil || !*item.IsBoosted || *item.BoostWeight != 1.5 {
		t.Errorf("boost metadata lost: %+v", item)
	}
}
