package utils

import (
	"os"
	"sbs/src/config"
	"sbs/src/types"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func IsProd() bool {
	return config.API_ENV == string(types.Production)
}

func GenerateJWT(email string, id uint, role string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &types.Claims{
		Username: email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(config.DATE_FORMAT, s)
}

// DateRange returns every date from start to end inclusive, as DATE_FORMAT
// strings. An inverted range yields nil.
func DateRange(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(config.DATE_FORMAT))
	}
	return dates
}

// MonthDates returns every date of (year, month) as DATE_FORMAT strings.
func MonthDates(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DateRange(first, last)
}

// IsExtendedWeekend reports whether the weekday falls in the Friday-Sunday
// band the presets treat as weekend.
func IsExtendedWeekend(d time.Weekday) bool {
	return d == time.Friday || d == time.Saturday || d == time.Sunday
}

func AddMinutes(timeOfDay string, minutes int) (string, error) {
	t, err := time.Parse(config.TIME_FORMAT, timeOfDay)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(config.TIME_FORMAT), nil
}
