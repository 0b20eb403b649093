package types

import "github.com/golang-jwt/jwt/v4"

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateAvailabilityRuleRequestBody struct {
	ProductID     *uint        `json:"product_id,omitempty"`
	Timezone      string       `json:"timezone" binding:"required,timezone"`
	Workdays      []int        `json:"workdays" binding:"required,min=1,max=7,dive,min=0,max=6"`
	StartTime     string       `json:"start_time" binding:"required,timeofday"`
	EndTime       string       `json:"end_time" binding:"required,timeofday,aftertime=StartTime"`
	SlotMinutes   int          `json:"slot_minutes" binding:"required,gt=0"`
	BufferMinutes int          `json:"buffer_minutes" binding:"gte=0"`
	CapacityType  CapacityType `json:"capacity_type" binding:"required,oneof=daily per_slot"`
	DailyCapacity int          `json:"daily_capacity" binding:"gte=0"`
	SlotCapacity  int          `json:"slot_capacity" binding:"gte=0"`
	IsActive      *bool        `json:"is_active,omitempty"`
}

type UpsertOverrideRequestBody struct {
	ProductID *uint  `json:"product_id,omitempty"`
	Date      string `json:"date,omitempty" binding:"omitempty,datestr"`
	// StartAt/EndAt carry intra-day ranges; exactly one of Date or the pair
	// must be set, enforced in the handler.
	StartAt          *string        `json:"start_at,omitempty"`
	EndAt            *string        `json:"end_at,omitempty"`
	Status           OverrideStatus `json:"status" binding:"required,oneof=available limited full blocked"`
	CapacityOverride *int           `json:"capacity_override,omitempty" binding:"omitempty,gte=0"`
	Reason           string         `json:"reason,omitempty"`
}

type ApplyPresetRequestBody struct {
	Preset        Preset `json:"preset" binding:"required,oneof=weekdays-available weekends-available reset"`
	StartDate     string `json:"start_date" binding:"required,datestr"`
	EndDate       string `json:"end_date" binding:"required,datestr,afterdate=StartDate"`
	DailyCapacity *int   `json:"daily_capacity,omitempty" binding:"omitempty,gte=0"`
}

type CreateBookingRequestRequestBody struct {
	ProductID         *uint  `json:"product_id,omitempty"`
	CampaignID        *uint  `json:"campaign_id,omitempty"`
	CampaignCardIndex *int   `json:"campaign_card_index,omitempty"`
	EventDate         string `json:"event_date" binding:"required,datestr"`
	Timezone          string `json:"timezone" binding:"required,timezone"`
}

type SelectTimeRequestBody struct {
	Time string `json:"time" binding:"required,timeofday"`
}

type StartCheckoutRequestBody struct {
	CustomerEmail string `json:"customer_email,omitempty" binding:"omitempty,email"`
}

type CreateProductRequestBody struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description,omitempty"`
	PriceCents       int64    `json:"price_cents" binding:"required,gt=0"`
	Currency         string   `json:"currency" binding:"required,len=3"`
	StripePriceId    *string  `json:"stripe_price_id,omitempty"`
	OfferWindowHours int      `json:"offer_window_hours,omitempty" binding:"omitempty,gt=0"`
	SlotMinutes      int      `json:"slot_minutes,omitempty" binding:"omitempty,gt=0"`
	FullWindowStart  string   `json:"full_window_start,omitempty" binding:"omitempty,timeofday"`
	FullWindowEnd    string   `json:"full_window_end,omitempty" binding:"omitempty,timeofday"`
	LimitedSlots     []string `json:"limited_slots,omitempty" binding:"omitempty,dive,timeofday"`
	Active           bool     `json:"active,omitempty"`
}

type CreateCampaignRequestBody struct {
	Title    string  `json:"title" binding:"required"`
	Subtitle string  `json:"subtitle,omitempty"`
	HeroURL  string  `json:"hero_url,omitempty"`
	StartsAt *string `json:"starts_at,omitempty" binding:"omitempty,datestr"`
	EndsAt   *string `json:"ends_at,omitempty" binding:"omitempty,datestr"`
	Active   bool    `json:"active,omitempty"`
}

type CreateCampaignCardRequestBody struct {
	CardIndex     int     `json:"card_index" binding:"gte=0"`
	Title         string  `json:"title" binding:"required"`
	ImageURL      string  `json:"image_url,omitempty"`
	PriceCents    int64   `json:"price_cents" binding:"required,gt=0"`
	StripePriceId *string `json:"stripe_price_id,omitempty"`
}

type CreateGalleryCardRequestBody struct {
	Title     string `json:"title" binding:"required"`
	ImageURL  string `json:"image_url" binding:"required,url"`
	Category  string `json:"category,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	Published bool   `json:"published,omitempty"`
}

type ReorderGalleryRequestBody struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

type LinkVisitorRequestBody struct {
	VisitorID string `json:"visitor_id" binding:"required,uuid"`
}
