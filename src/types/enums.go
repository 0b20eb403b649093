package types

// DayStatus is the effective state of a calendar day after merging the
// active rule, any override and the confirmed bookings for that day.
type DayStatus string

const (
	DAY_AVAILABLE DayStatus = "available"
	DAY_LIMITED   DayStatus = "limited"
	DAY_FULL      DayStatus = "full"
	DAY_BLOCKED   DayStatus = "blocked"
	// DAY_NEEDS_REVIEW signals "no active rule configured", not an error.
	DAY_NEEDS_REVIEW DayStatus = "needs_review"
)

type OverrideStatus string

const (
	OVERRIDE_AVAILABLE OverrideStatus = "available"
	OVERRIDE_LIMITED   OverrideStatus = "limited"
	OVERRIDE_FULL      OverrideStatus = "full"
	OVERRIDE_BLOCKED   OverrideStatus = "blocked"
)

type CapacityType string

const (
	CAPACITY_DAILY    CapacityType = "daily"
	CAPACITY_PER_SLOT CapacityType = "per_slot"
)

// BookingStage is forward-only within one request's lifetime. Re-running the
// find-or-create lookup never regresses it; a new date means a new request.
type BookingStage string

const (
	STAGE_DATE_SELECTED    BookingStage = "date_selected"
	STAGE_TIME_SELECTED    BookingStage = "time_selected"
	STAGE_CHECKOUT_STARTED BookingStage = "checkout_started"
	STAGE_PAID             BookingStage = "paid"
)

type HoldStatus string

const (
	HOLD_ACTIVE    HoldStatus = "active"
	HOLD_EXPIRED   HoldStatus = "expired"
	HOLD_CONVERTED HoldStatus = "converted"
)

// AvailabilityVersion is derived from offer_expires_at and stage on every
// read, never stored authoritatively.
type AvailabilityVersion string

const (
	VERSION_FULL    AvailabilityVersion = "full"
	VERSION_LIMITED AvailabilityVersion = "limited"
)

type Preset string

const (
	PRESET_WEEKDAYS_AVAILABLE Preset = "weekdays-available"
	PRESET_WEEKENDS_AVAILABLE Preset = "weekends-available"
	PRESET_RESET              Preset = "reset"
)

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "canceled"
)

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)
