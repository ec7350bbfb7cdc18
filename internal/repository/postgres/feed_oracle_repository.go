package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"resaleMarket/business/feed"
	"resaleMarket/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	homeFeedQuery = `SELECT * FROM get_home_feed(
		p_listing_id => NULL,
		p_limit => @limit,
		p_tag => @tag,
		p_trending_limit => @trending_limit,
		p_seed => @seed,
		p_offset => @offset
	)`

	searchFeedQuery = `SELECT * FROM get_search_feed(
		p_supabase_user_id => @user_id,
		p_search_query => @query,
		p_limit => @limit,
		p_offset => @offset,
		p_seed => @seed,
		p_gender => @gender,
		p_category_id => @category_id
	)`
)

// feedRow mirrors the columns both ranking functions return. Columns a
// function does not return are left at their zero value.
type feedRow struct {
	ID              int64           `gorm:"column:id"`
	Title           sql.NullString  `gorm:"column:title"`
	ImageURL        sql.NullString  `gorm:"column:image_url"`
	PriceCents      sql.NullInt64   `gorm:"column:price_cents"`
	Brand           sql.NullString  `gorm:"column:brand"`
	Tags            pq.StringArray  `gorm:"column:tags;type:text[]"`
	Source          string          `gorm:"column:source"`
	FairScore       sql.NullFloat64 `gorm:"column:fair_score"`
	FinalScore      sql.NullFloat64 `gorm:"column:final_score"`
	IsBoosted       sql.NullBool    `gorm:"column:is_boosted"`
	BoostWeight     sql.NullFloat64 `gorm:"column:boost_weight"`
	SearchRelevance sql.NullFloat64 `gorm:"column:search_relevance"`
}

func (r feedRow) toDomain() domain.FeedRow {
	out := domain.FeedRow{
		ID:     r.ID,
		Tags:   []string(r.Tags),
		Source: r.Source,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if r.Title.Valid {
		out.Title = &r.Title.String
	}
	if r.ImageURL.Valid {
		out.ImageURL = &r.ImageURL.String
	}
	if r.PriceCents.Valid {
		out.PriceCents = &r.PriceCents.Int64
	}
	if r.Brand.Valid {
		out.Brand = &r.Brand.String
	}
	if r.FairScore.Valid {
		out.FairScore = &r.FairScore.Float64
	}
	if r.FinalScore.Valid {
		out.FinalScore = &r.FinalScore.Float64
	}
	if r.IsBoosted.Valid {
		out.IsBoosted = &r.IsBoosted.Bool
	}
	if r.BoostWeight.Valid {
		out.BoostWeight = &r.BoostWeight.Float64
	}
	if r.SearchRelevance.Valid {
		out.SearchRelevance = &r.SearchRelevance.Float64
	}
	return out
}

// FeedOracleRepository calls the ranking functions directly over the
// application's database connection.
type FeedOracleRepository struct {
	DB *gorm.DB
}

func NewFeedOracleRepository(db *gorm.DB) *FeedOracleRepository {
	return &FeedOracleRepository{
		DB: db,
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *FeedOracleRepository) RankCandidates(ctx context.Context, p feed.OracleParams) ([]domain.FeedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var (
		query string
		args  map[string]any
	)

	switch p.Endpoint {
	case feed.EndpointHome:
		query = homeFeedQuery
		args = map[string]any{
			"limit":          p.Limit,
			"tag":            nullableString(p.Tag),
			"trending_limit": p.TrendingLimit,
			"seed":           p.Seed,
			"offset":         p.Offset,
		}
	case feed.EndpointSearch:
		query = searchFeedQuery
		args = map[string]any{
			"user_id":     nullableString(p.UserID),
			"query":       p.Query,
			"limit":       p.Limit,
			"offset":      p.Offset,
			"seed":        p.Seed,
			"gender":      nullableString(p.Gender),
			"category_id": p.CategoryID,
		}
	default:
		return nil, &feed.OracleError{Code: feed.CodeFatal, Message: fmt.Sprintf("unknown endpoint %q", p.Endpoint)}
	}

	var rows []feedRow
	if err := r.DB.WithContext(ctx).Raw(query, args).Scan(&rows).Error; err != nil {
		return nil, classifyPgError(err)
	}

	out := make([]domain.FeedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// classifyPgError maps driver errors onto oracle error codes so the retry
// controller can tell load problems from broken calls.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := feed.CodeFatal
		switch {
		case pgErr.Code == "57014":
			code = feed.CodeTimeout
		case strings.HasPrefix(pgErr.Code, "53"), pgErr.Code == "40001", pgErr.Code == "40P01":
			code = feed.CodeOverloaded
		}
		return &feed.OracleError{Code: code, Message: pgErr.Message, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &feed.OracleError{Code: feed.CodeTimeout, Message: err.Error(), Err: err}
	}

	return &feed.OracleError{Code: feed.CodeFatal, Message: err.Error(), Err: err}
}

var _ feed.RankingOracle = (*FeedOracleRepository)(nil)
