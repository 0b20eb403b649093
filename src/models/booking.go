package models

import (
	"sbs/src/types"
	"time"

	"github.com/google/uuid"
)

// BookingRequest tracks a visitor's or user's intent to book one date. The
// lookup identity is (product or campaign+card) x event_date x (user or
// visitor); revisits reuse the row instead of duplicating it.
type BookingRequest struct {
	ID                      uuid.UUID          `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProductID               *uint              `gorm:"index" json:"product_id,omitempty"`
	CampaignID              *uint              `gorm:"index" json:"campaign_id,omitempty"`
	CampaignCardIndex       *int               `json:"campaign_card_index,omitempty"`
	UserID                  *uint              `gorm:"index" json:"user_id,omitempty"`
	VisitorID               *string            `gorm:"index" json:"visitor_id,omitempty"`
	EventDate               string             `gorm:"type:date;index" json:"event_date,omitempty"`
	Timezone                string             `json:"timezone,omitempty"`
	Stage                   types.BookingStage `gorm:"default:'date_selected'" json:"stage,omitempty"`
	OfferExpiresAt          time.Time          `json:"offer_expires_at,omitempty"`
	SelectedTime            *string            `json:"selected_time,omitempty"`
	StripeCheckoutSessionId *string            `json:"-"`
	LastSeenAt              time.Time          `json:"last_seen_at,omitempty"`

	Product  *Product  `gorm:"foreignKey:product_id" json:"product,omitempty"`
	Campaign *Campaign `gorm:"foreignKey:campaign_id" json:"campaign,omitempty"`
	User     *User     `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

// BookingSlotHold is a time-boxed exclusive claim on one slot. The partial
// unique index on (product_id, event_date, start_time) over active/converted
// rows is the sole backstop against two concurrent holds; the insert path
// treats a duplicate-key error as "slot just taken". Rows are never deleted.
type BookingSlotHold struct {
	ID               uuid.UUID        `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	BookingRequestID uuid.UUID        `gorm:"type:uuid;index" json:"booking_request_id,omitempty"`
	ProductID        uint             `gorm:"index:idx_slot_claim,unique,where:status IN ('active','converted')" json:"product_id,omitempty"`
	EventDate        string           `gorm:"type:date;index:idx_slot_claim,unique,where:status IN ('active','converted')" json:"event_date,omitempty"`
	StartTime        string           `gorm:"index:idx_slot_claim,unique,where:status IN ('active','converted')" json:"start_time,omitempty"`
	EndTime          string           `json:"end_time,omitempty"`
	Status           types.HoldStatus `gorm:"default:'active'" json:"status,omitempty"`
	ExpiresAt        time.Time        `json:"expires_at,omitempty"`

	BookingRequest *BookingRequest `gorm:"foreignKey:booking_request_id" json:"-"`

	types.Timestamps
}

// Booking is the permanent record, written only by the payment completion
// handler. The unique checkout session id makes webhook redelivery a no-op.
type Booking struct {
	ID                      uint                `gorm:"primarykey" json:"id"`
	BookingRequestID        uuid.UUID           `gorm:"type:uuid;index" json:"booking_request_id,omitempty"`
	ProductID               *uint               `json:"product_id,omitempty"`
	PackageID               *uint               `json:"package_id,omitempty"`
	EventDate               string              `gorm:"type:date;index" json:"event_date,omitempty"`
	StartTime               string              `json:"start_time,omitempty"`
	EndTime                 string              `json:"end_time,omitempty"`
	Status                  types.BookingStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	StripeCheckoutSessionId *string             `gorm:"uniqueIndex" json:"-"`
	PaymentIntentId         *string             `json:"-"`
	AmountPaid              int64               `json:"amount_paid,omitempty"`
	Currency                string              `json:"currency,omitempty"`
	CustomerName            string              `json:"customer_name,omitempty"`
	CustomerEmail           string              `json:"customer_email,omitempty"`
	UserID                  *uint               `gorm:"index" json:"user_id,omitempty"`

	Product *Product `gorm:"foreignKey:product_id" json:"product,omitempty"`
	User    *User    `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
