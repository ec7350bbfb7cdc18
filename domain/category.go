package domain

import (
	"time"
)

// CREATE TABLE public.categories (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT NOT NULL,
//     description TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Category struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}
