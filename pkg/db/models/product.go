package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turboost/turboost-backend/pkg/types"
)

// Product is a catalog part as maintained through the admin panel.
type Product struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	Brand      string          `gorm:"column:brand;not null"`
	Model      string          `gorm:"column:model;not null"`
	Years      types.YearSet   `gorm:"column:years;type:jsonb;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	WeightKG   float64         `gorm:"column:weight_kg;not null;default:0"`
	LengthCM   float64         `gorm:"column:length_cm;not null;default:0"`
	HeightCM   float64         `gorm:"column:height_cm;not null;default:0"`
	WidthCM    float64         `gorm:"column:width_cm;not null;default:0"`
	ImageURL1  *string         `gorm:"column:image_url_1"`
	ImageURL2  *string         `gorm:"column:image_url_2"`
	ImageURL3  *string         `gorm:"column:image_url_3"`
	SoundStock *string         `gorm:"column:sound_stock_url"`
	SoundIdle  *string         `gorm:"column:sound_idle_url"`
	SoundRev   *string         `gorm:"column:sound_rev_url"`
	IsFeatured bool            `gorm:"column:is_featured;not null;default:false"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
