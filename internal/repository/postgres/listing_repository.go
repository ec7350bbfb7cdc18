package postgres

import (
	"context"
	"fmt"
	"strings"

	"resaleMarket/business/feed"
	"resaleMarket/domain"
	"resaleMarket/pkg/tracing"

	"gorm.io/gorm"
)

type ListingRepository struct {
	DB *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{
		DB: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// SearchListings returns one page of available listings matching the filter,
// newest first, plus the total number of matches.
func (r *ListingRepository) SearchListings(ctx context.Context, filter feed.ListingFilter) (listings []domain.Listing, total int64, err error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	ctx, end := tracing.StartSpan(ctx, "select listings")
	defer func() { end(err) }()

	q := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("listings.listed = ? AND listings.sold = ?", true, false)

	if filter.CategoryName != "" {
		q = q.Joins("JOIN categories ON categories.id = listings.category_id").
			Where("categories.name ILIKE ?", containsPattern(filter.CategoryName))
	}

	if filter.Gender != "" {
		q = q.Where("listings.gender = ?", filter.Gender)
	}

	if filter.Query != "" {
		like := containsPattern(filter.Query)
		q = q.Where("(listings.name ILIKE ? OR listings.description ILIKE ? OR listings.brand ILIKE ?)", like, like, like)
	}

	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	err = q.Select("listings.*").
		Preload("Seller").
		Preload("Category").
		Order("listings.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&listings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search listings: %w", err)
	}

	return listings, total, nil
}

var _ feed.ListingRepository = (*ListingRepository)(nil)
