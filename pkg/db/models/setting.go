package models

import "time"

// StoreSettings is the single-row store configuration edited from the admin panel.
type StoreSettings struct {
	ID           int       `gorm:"column:id;primaryKey"`
	StoreName    string    `gorm:"column:store_name;not null;default:''"`
	ContactEmail string    `gorm:"column:contact_email;not null;default:''"`
	WhatsApp     string    `gorm:"column:whatsapp;not null;default:''"`
	InstagramURL string    `gorm:"column:instagram_url;not null;default:''"`
	HeroTitle    string    `gorm:"column:hero_title;not null;default:''"`
	HeroSubtitle string    `gorm:"column:hero_subtitle;not null;default:''"`
	LogoURL      *string   `gorm:"column:logo_url"`
	FaviconURL   *string   `gorm:"column:favicon_url"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
