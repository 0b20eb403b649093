package config

import (
	"fmt"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

var API_ENV = os.Getenv("API_ENV")

const (
	DATE_FORMAT      = "2006-01-02"
	TIME_FORMAT      = "15:04"
	DEFAULT_TIMEZONE = "Europe/Berlin"
)

// Booking flow defaults. Products may override the offer window and the slot
// duration; the hold TTL is global and mirrored into the Stripe checkout
// session expiry.
const (
	OFFER_WINDOW_HOURS_DEFAULT = 24
	CHECKOUT_HOLD_MINUTES      = 15
	SLOT_MINUTES_DEFAULT       = 60
)

func GetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	atoi, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return atoi
}
