package models

import (
	"sbs/src/types"
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is the recurring weekly template for a product, or the
// global template when product_id is null. Writes reject a second active
// rule for the same scope; reads still order by created_at desc so the most
// recent active rule wins if legacy rows violate that.
type AvailabilityRule struct {
	ID            uint               `gorm:"primarykey" json:"id"`
	ProductID     *uint              `json:"product_id,omitempty"`
	Timezone      string             `gorm:"default:'Europe/Berlin'" json:"timezone,omitempty"`
	Workdays      types.IntList      `gorm:"type:jsonb" json:"workdays,omitempty"`
	StartTime     string             `json:"start_time,omitempty"`
	EndTime       string             `json:"end_time,omitempty"`
	SlotMinutes   int                `json:"slot_minutes,omitempty"`
	BufferMinutes int                `json:"buffer_minutes,omitempty"`
	CapacityType  types.CapacityType `gorm:"default:'daily'" json:"capacity_type,omitempty"`
	DailyCapacity int                `json:"daily_capacity"`
	SlotCapacity  int                `json:"slot_capacity"`
	IsActive      bool               `gorm:"default:true" json:"is_active"`

	types.Timestamps
}

// AvailabilityOverride supersedes the rule for one date (Date set, StartAt
// and EndAt null) or an intra-day range (the reverse). CapacityOverride nil
// means "status change only, capacity inherited from the rule".
type AvailabilityOverride struct {
	ID               uint                 `gorm:"primarykey" json:"id"`
	ProductID        *uint                `gorm:"index" json:"product_id,omitempty"`
	Date             *string              `gorm:"type:date;index" json:"date,omitempty"`
	StartAt          *time.Time           `json:"start_at,omitempty"`
	EndAt            *time.Time           `json:"end_at,omitempty"`
	Status           types.OverrideStatus `json:"status,omitempty"`
	CapacityOverride *int                 `json:"capacity_override,omitempty"`
	Reason           string               `json:"reason,omitempty"`
	CreatedBy        *uint                `json:"created_by,omitempty"`

	types.Timestamps
}

// AvailabilityAuditLog is append-only. Rows are never updated or deleted by
// the application.
type AvailabilityAuditLog struct {
	ID        uuid.UUID   `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Action    string      `json:"action,omitempty"`
	ActorID   *uint       `json:"actor_id,omitempty"`
	Payload   types.JSONB `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
}
