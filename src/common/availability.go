package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sbs/src/db"
	"sbs/src/lib"
	"sbs/src/models"
	"sbs/src/types"
	"sbs/src/utils"
	"time"

	"gorm.io/gorm"
)

// DayAvailability is the computed state of one calendar day. It is never
// persisted; the calendar recomputes it on every read.
type DayAvailability struct {
	Status         types.DayStatus `json:"status"`
	AvailableCount int             `json:"available_count"`
	TotalCount     int             `json:"total_count"`
}

// GetActiveRule returns the authoritative rule for a product: the most
// recently created active row, falling back to the global rule (product_id
// null) when the product has none. A nil result with nil error means "not
// configured yet".
func GetActiveRule(tx *gorm.DB, productId uint) (*models.AvailabilityRule, error) {
	var rule models.AvailabilityRule
	err := tx.
		Model(&models.AvailabilityRule{}).
		Where(&models.AvailabilityRule{ProductID: &productId, IsActive: true}).
		Order("created_at DESC").
		First(&rule).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = tx.
			Model(&models.AvailabilityRule{}).
			Where("product_id IS NULL").
			Where("is_active = ?", true).
			Order("created_at DESC").
			First(&rule).
			Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ComputeMonthAvailability merges rule, whole-day overrides and confirmed
// booking counts into a per-date map for one month. With no active rule
// every day is needs_review. A whole-day override wins over the rule; its
// nil capacity inherits the rule's. Days outside the rule's workdays are
// blocked.
func ComputeMonthAvailability(rule *models.AvailabilityRule, overrides []models.AvailabilityOverride, booked map[string]int, year int, month time.Month) map[string]DayAvailability {
	days := map[string]DayAvailability{}
	dates := utils.MonthDates(year, month)

	if rule == nil {
		for _, date := range dates {
			days[date] = DayAvailability{Status: types.DAY_NEEDS_REVIEW}
		}
		return days
	}

	byDate := map[string]*models.AvailabilityOverride{}
	for i := range overrides {
		o := overrides[i]
		if o.Date != nil {
			byDate[*o.Date] = &overrides[i]
		}
	}

	for _, date := range dates {
		capacity := rule.DailyCapacity
		if rule.CapacityType == types.CAPACITY_PER_SLOT {
			capacity = rule.SlotCapacity
		}

		var status types.DayStatus
		if o, ok := byDate[date]; ok {
			status = types.DayStatus(o.Status)
			if o.CapacityOverride != nil {
				capacity = *o.CapacityOverride
			}
		} else {
			d, err := utils.ParseDate(date)
			if err != nil {
				continue
			}
			if rule.Workdays.Contains(int(d.Weekday())) {
				status = types.DAY_AVAILABLE
			} else {
				status = types.DAY_BLOCKED
			}
		}

		available := capacity - booked[date]
		if available < 0 {
			available = 0
		}
		days[date] = DayAvailability{
			Status:         status,
			AvailableCount: available,
			TotalCount:     capacity,
		}
	}
	return days
}

func monthCacheKey(productId uint, year int, month time.Month) string {
	return fmt.Sprintf("availability:%d:%d-%02d", productId, year, int(month))
}

// GetMonthAvailability loads the rule, overrides and booking counts for one
// month and computes the calendar. Results are cached in redis for a short
// TTL; override and rule writes invalidate the affected months. Absence of
// rows is the normal "not configured" case, read failures propagate to the
// caller.
func GetMonthAvailability(productId uint, year int, month time.Month) (map[string]DayAvailability, error) {
	rd := lib.GetRedisClient()
	key := monthCacheKey(productId, year, month)
	if rd != nil {
		if cached, err := rd.Get(context.Background(), key).Result(); err == nil {
			var days map[string]DayAvailability
			if err := json.Unmarshal([]byte(cached), &days); err == nil {
				return days, nil
			}
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	firstStr := first.Format("2006-01-02")
	lastStr := last.Format("2006-01-02")

	var rule *models.AvailabilityRule
	var overrides []models.AvailabilityOverride
	booked := map[string]int{}
	dbi := db.GetDb()
	err := dbi.Transaction(func(tx *gorm.DB) error {
		r, err := GetActiveRule(tx, productId)
		if err != nil {
			return err
		}
		rule = r

		// Per-product overrides win over global ones; ordering global first
		// lets the later product row replace it in the byDate map.
		if err := tx.
			Model(&models.AvailabilityOverride{}).
			Where("date BETWEEN ? AND ?", firstStr, lastStr).
			Where("product_id IS NULL OR product_id = ?", productId).
			Order("product_id ASC NULLS FIRST").
			Find(&overrides).
			Error; err != nil {
			return err
		}

		type dateCount struct {
			EventDate string
			Count     int
		}
		var counts []dateCount
		if err := tx.
			Model(&models.Booking{}).
			Select("event_date, COUNT(id) as count").
			Where("product_id = ?", productId).
			Where("status = ?", types.BOOKING_CONFIRMED).
			Where("event_date BETWEEN ? AND ?", firstStr, lastStr).
			Group("event_date").
			Find(&counts).
			Error; err != nil {
			return err
		}
		for _, c := range counts {
			booked[c.EventDate] = c.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	days := ComputeMonthAvailability(rule, overrides, booked, year, month)

	if rd != nil {
		if bDays, err := json.Marshal(&days); err == nil {
			if err := rd.SetEx(context.Background(), key, string(bDays), 5*time.Minute).Err(); err != nil {
				log.Printf("[redis] Error caching %s: %s\n", key, err.Error())
			}
		}
	}
	return days, nil
}

// FlushAvailabilityCache drops every cached month. Rule writes use this
// since a template change can affect any month.
func FlushAvailabilityCache() {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	iter := rd.Scan(context.Background(), 0, "availability:*", 100).Iterator()
	for iter.Next(context.Background()) {
		rd.Del(context.Background(), iter.Val())
	}
}

// InvalidateAvailabilityCache drops cached months touched by a write. With
// productId zero all products' entries for the dates are dropped by pattern.
func InvalidateAvailabilityCache(productId uint, dates ...string) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	months := map[string]bool{}
	for _, date := range dates {
		d, err := utils.ParseDate(date)
		if err != nil {
			continue
		}
		months[fmt.Sprintf("%d-%02d", d.Year(), int(d.Month()))] = true
	}
	for m := range months {
		if productId > 0 {
			rd.Del(context.Background(), fmt.Sprintf("availability:%d:%s", productId, m))
			continue
		}
		iter := rd.Scan(context.Background(), 0, fmt.Sprintf("availability:*:%s", m), 100).Iterator()
		for iter.Next(context.Background()) {
			rd.Del(context.Background(), iter.Val())
		}
	}
}
