package models

import (
	"sbs/src/types"
	"time"
)

type User struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	Name             string  `json:"name,omitempty"`
	Email            string  `gorm:"uniqueIndex" json:"email,omitempty"`
	Role             string  `gorm:"default:'customer'" json:"role,omitempty"`
	EmailVerified    bool    `json:"email_verified,omitempty"`
	StripeCustomerId *string `json:"-"`
	// DashboardActive is flipped by the payment completion handler once the
	// first paid booking lands.
	DashboardActive bool       `json:"dashboard_active,omitempty"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`

	BookingRequests []BookingRequest `gorm:"foreignKey:user_id" json:"booking_requests,omitempty"`
	Bookings        []Booking        `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
