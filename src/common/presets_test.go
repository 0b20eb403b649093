package common

import (
	"sbs/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2026-03-02 is a Monday; the week runs Mon-Thu 02-05 and Fri-Sun 06-08.
var (
	presetWeekStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	presetWeekEnd   = time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
)

func TestBuildPresetOverridesReset(t *testing.T) {
	rows, skipped := BuildPresetOverrides(types.PRESET_RESET, presetWeekStart, presetWeekEnd, nil, nil, nil)

	assert.Nil(t, rows)
	assert.Zero(t, skipped)
}

func TestBuildPresetOverridesWeekdaysAvailable(t *testing.T) {
	cap := 1
	rows, skipped := BuildPresetOverrides(types.PRESET_WEEKDAYS_AVAILABLE, presetWeekStart, presetWeekEnd, nil, &cap, nil)

	assert.Len(t, rows, 7)
	assert.Zero(t, skipped)

	byDate := map[string]int{}
	for i, row := range rows {
		byDate[*row.Date] = i
		assert.Equal(t, "preset:weekdays-available", row.Reason)
	}

	monday := rows[byDate["2026-03-02"]]
	assert.Equal(t, types.OVERRIDE_AVAILABLE, monday.Status)
	// Capacity rides only on the limited half.
	assert.Nil(t, monday.CapacityOverride)

	friday := rows[byDate["2026-03-06"]]
	assert.Equal(t, types.OVERRIDE_LIMITED, friday.Status)
	assert.NotNil(t, friday.CapacityOverride)
	assert.Equal(t, 1, *friday.CapacityOverride)

	sunday := rows[byDate["2026-03-08"]]
	assert.Equal(t, types.OVERRIDE_LIMITED, sunday.Status)
}

func TestBuildPresetOverridesWeekendsAvailable(t *testing.T) {
	rows, _ := BuildPresetOverrides(types.PRESET_WEEKENDS_AVAILABLE, presetWeekStart, presetWeekEnd, nil, nil, nil)

	byDate := map[string]types.OverrideStatus{}
	for _, row := range rows {
		byDate[*row.Date] = row.Status
	}

	assert.Equal(t, types.OVERRIDE_LIMITED, byDate["2026-03-02"])
	assert.Equal(t, types.OVERRIDE_AVAILABLE, byDate["2026-03-07"])
}

func TestBuildPresetOverridesSkipsProtectedDates(t *testing.T) {
	protected := map[string]bool{
		"2026-03-03": true,
		"2026-03-07": true,
	}
	rows, skipped := BuildPresetOverrides(types.PRESET_WEEKDAYS_AVAILABLE, presetWeekStart, presetWeekEnd, protected, nil, nil)

	assert.Len(t, rows, 5)
	assert.Equal(t, 2, skipped)
	for _, row := range rows {
		assert.False(t, protected[*row.Date], "protected date %s must not get an override", *row.Date)
	}
}
