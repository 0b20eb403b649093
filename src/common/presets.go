package common

import (
	"log"
	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/types"
	"sbs/src/utils"
	"time"

	"gorm.io/gorm"
)

type PresetResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// BuildPresetOverrides classifies every date in [start, end] as weekday
// (Mon-Thu) or extended weekend (Fri-Sun) and builds the override rows for
// the preset. Protected dates produce no row and are tallied separately.
// The reset preset builds nothing.
func BuildPresetOverrides(preset types.Preset, start, end time.Time, protected map[string]bool, dailyCapacity *int, actorId *uint) ([]models.AvailabilityOverride, int) {
	if preset == types.PRESET_RESET {
		return nil, 0
	}
	weekdayStatus := types.OVERRIDE_AVAILABLE
	weekendStatus := types.OVERRIDE_LIMITED
	if preset == types.PRESET_WEEKENDS_AVAILABLE {
		weekdayStatus, weekendStatus = weekendStatus, weekdayStatus
	}

	var rows []models.AvailabilityOverride
	skipped := 0
	for _, date := range utils.DateRange(start, end) {
		if protected[date] {
			skipped++
			continue
		}
		d, err := utils.ParseDate(date)
		if err != nil {
			continue
		}
		status := weekdayStatus
		var capacity *int
		if utils.IsExtendedWeekend(d.Weekday()) {
			status = weekendStatus
		}
		// Status-only for the "available" half; the limited half carries the
		// requested capacity when one was given.
		if status == types.OVERRIDE_LIMITED {
			capacity = dailyCapacity
		}
		dateCopy := date
		rows = append(rows, models.AvailabilityOverride{
			Date:             &dateCopy,
			Status:           status,
			CapacityOverride: capacity,
			Reason:           "preset:" + string(preset),
			CreatedBy:        actorId,
		})
	}
	return rows, skipped
}

// ApplyPreset bulk-edits the calendar range in one transaction: the
// unconditional delete of existing overrides and the insert of the new rows
// either both land or neither does. Dates that already carry a confirmed
// booking are protected: no new override is written for them and they count
// as skipped. One audit row summarizes each bulk step.
func ApplyPreset(preset types.Preset, startDate, endDate string, dailyCapacity *int, actorId *uint) (*PresetResult, error) {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	result := &PresetResult{}
	dbi := db.GetDb()
	err = dbi.Transaction(func(tx *gorm.DB) error {
		var protectedDates []string
		if err := tx.
			Model(&models.Booking{}).
			Distinct("event_date").
			Where("status = ?", types.BOOKING_CONFIRMED).
			Where("event_date BETWEEN ? AND ?", startDate, endDate).
			Pluck("event_date", &protectedDates).
			Error; err != nil {
			return err
		}
		protected := map[string]bool{}
		for _, d := range protectedDates {
			protected[d] = true
		}

		deleted := tx.
			Where("date BETWEEN ? AND ?", startDate, endDate).
			Where("product_id IS NULL").
			Delete(&models.AvailabilityOverride{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if err := AppendAuditLog(tx, "preset_delete_range", actorId, types.JSONB{
			"preset":     string(preset),
			"start_date": startDate,
			"end_date":   endDate,
			"deleted":    deleted.RowsAffected,
		}); err != nil {
			return err
		}

		rows, skipped := BuildPresetOverrides(preset, start, end, protected, dailyCapacity, actorId)
		result.Skipped = skipped
		if preset == types.PRESET_RESET {
			result.Skipped = len(protectedDates)
			return nil
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		result.Applied = len(rows)
		if err := AppendAuditLog(tx, "preset_apply", actorId, types.JSONB{
			"preset":     string(preset),
			"start_date": startDate,
			"end_date":   endDate,
			"applied":    result.Applied,
			"skipped":    result.Skipped,
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("[Preset] ApplyPreset %s failed: %s\n", preset, err.Error())
		return nil, err
	}

	InvalidateAvailabilityCache(0, utils.DateRange(start, end)...)
	return result, nil
}
