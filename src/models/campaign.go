package models

import (
	"sbs/src/types"
	"time"
)

// Campaign is a promotional landing page with an ordered set of bookable
// cards. Booking requests reference a campaign through (campaign_id,
// card_index) instead of a product id.
type Campaign struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Slug     string     `gorm:"uniqueIndex" json:"slug,omitempty"`
	Title    string     `json:"title,omitempty"`
	Subtitle string     `json:"subtitle,omitempty"`
	HeroURL  string     `json:"hero_url,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Active   bool       `gorm:"default:false" json:"active"`

	Cards []CampaignCard `gorm:"foreignKey:campaign_id" json:"cards,omitempty"`

	types.Timestamps
}

type CampaignCard struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	CampaignID    uint    `gorm:"index:idx_campaign_card,unique" json:"campaign_id,omitempty"`
	CardIndex     int     `gorm:"index:idx_campaign_card,unique" json:"card_index"`
	Title         string  `json:"title,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	PriceCents    int64   `json:"price_cents,omitempty"`
	StripePriceId *string `json:"-"`

	types.Timestamps
}

type GalleryCard struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Title     string `json:"title,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Category  string `json:"category,omitempty"`
	SortOrder int    `json:"sort_order"`
	Published bool   `gorm:"default:true" json:"published"`

	types.Timestamps
}
