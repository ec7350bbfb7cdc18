package domain

import (
	"time"
)

// User is the seller side of a listing. Only the columns the feed needs to
// render a seller summary are mapped.
type User struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	Username       string    `gorm:"column:username"`
	AvatarURL      *string   `gorm:"column:avatar_url"`
	AverageRating  *float64  `gorm:"column:average_rating;type:numeric"`
	TotalReviews   *int      `gorm:"column:total_reviews"`
	IsPremium      bool      `gorm:"column:is_premium;default:false"`
	SupabaseUserID *string   `gorm:"column:supabase_user_id;type:uuid"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
