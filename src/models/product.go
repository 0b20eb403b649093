package models

import "sbs/src/types"

// Product is a bookable shoot package (wedding, portrait, brand video, ...).
type Product struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	Name          string  `json:"name,omitempty"`
	Slug          string  `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description   string  `json:"description,omitempty"`
	PriceCents    int64   `json:"price_cents,omitempty"`
	Currency      string  `gorm:"default:'eur'" json:"currency,omitempty"`
	StripePriceId *string `json:"-"`

	// Booking flow configuration. Zero values fall back to the defaults in
	// the config package.
	OfferWindowHours int              `json:"offer_window_hours,omitempty"`
	SlotMinutes      int              `json:"slot_minutes,omitempty"`
	FullWindowStart  string           `gorm:"default:'09:00'" json:"full_window_start,omitempty"`
	FullWindowEnd    string           `gorm:"default:'18:00'" json:"full_window_end,omitempty"`
	LimitedSlots     types.StringList `gorm:"type:jsonb" json:"limited_slots,omitempty"`

	Active    bool `gorm:"default:true" json:"active"`
	SortOrder int  `json:"sort_order,omitempty"`

	Rules []AvailabilityRule `gorm:"foreignKey:product_id" json:"rules,omitempty"`

	types.Timestamps
}
