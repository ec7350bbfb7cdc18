package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Listing is a second-hand item offered for sale. Tags and image_urls are
// stored as jsonb and may hold either an array or a JSON-encoded string of
// an array, depending on which client wrote them.
type Listing struct {
	ID             int64          `gorm:"primaryKey;column:id"`
	Name           string         `gorm:"column:name;type:text"`
	Description    *string        `gorm:"column:description;type:text"`
	Price          float64        `gorm:"column:price;type:numeric"`
	Brand          *string        `gorm:"column:brand;type:text"`
	Size           *string        `gorm:"column:size;type:text"`
	ConditionType  *string        `gorm:"column:condition_type;type:text"`
	Material       *string        `gorm:"column:material;type:text"`
	Tags           datatypes.JSON `gorm:"column:tags;type:jsonb"`
	ImageURL       *string        `gorm:"column:image_url;type:text"`
	ImageURLs      datatypes.JSON `gorm:"column:image_urls;type:jsonb"`
	Gender         *string        `gorm:"column:gender;type:text"`
	Listed         bool           `gorm:"column:listed;default:true"`
	Sold           bool           `gorm:"column:sold;default:false"`
	CategoryID     *int64         `gorm:"column:category_id"`
	Category       *Category      `gorm:"foreignKey:CategoryID"`
	SellerID       *int64         `gorm:"column:seller_id"`
	Seller         *User          `gorm:"foreignKey:SellerID"`
	ShippingOption *string        `gorm:"column:shipping_option;type:text"`
	ShippingFee    *float64       `gorm:"column:shipping_fee;type:numeric"`
	Location       *string        `gorm:"column:location;type:text"`
	LikesCount     int            `gorm:"column:likes_count;default:0"`
	InventoryCount *int           `gorm:"column:inventory_count"`
	CreatedAt      *time.Time     `gorm:"column:created_at"`
	UpdatedAt      *time.Time     `gorm:"column:updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}
