package common

import (
	"sbs/src/models"
	"sbs/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func weeklyRule(workdays []int) *models.AvailabilityRule {
	return &models.AvailabilityRule{
		ID:            1,
		Timezone:      "Europe/Berlin",
		Workdays:      types.IntList(workdays),
		StartTime:     "09:00",
		EndTime:       "18:00",
		SlotMinutes:   60,
		CapacityType:  types.CAPACITY_DAILY,
		DailyCapacity: 2,
		IsActive:      true,
	}
}

func TestComputeMonthAvailabilityWithoutRule(t *testing.T) {
	days := ComputeMonthAvailability(nil, nil, nil, 2026, time.March)

	assert.Len(t, days, 31)
	for date, day := range days {
		assert.Equalf(t, types.DAY_NEEDS_REVIEW, day.Status, "expected needs_review on %s", date)
		assert.Zero(t, day.TotalCount)
	}
}

func TestComputeMonthAvailabilityWorkdays(t *testing.T) {
	// Mon-Fri rule. 2026-03-02 is a Monday, 2026-03-07 a Saturday.
	rule := weeklyRule([]int{1, 2, 3, 4, 5})
	days := ComputeMonthAvailability(rule, nil, nil, 2026, time.March)

	assert.Equal(t, types.DAY_AVAILABLE, days["2026-03-02"].Status)
	assert.Equal(t, types.DAY_BLOCKED, days["2026-03-07"].Status)
	assert.Equal(t, types.DAY_BLOCKED, days["2026-03-08"].Status)
	assert.Equal(t, 2, days["2026-03-02"].AvailableCount)
	assert.Equal(t, 2, days["2026-03-02"].TotalCount)
}

func TestComputeMonthAvailabilityOverrideWins(t *testing.T) {
	rule := weeklyRule([]int{1, 2, 3, 4, 5})
	blocked := "2026-03-02"
	limited := "2026-03-08"
	cap := 1
	overrides := []models.AvailabilityOverride{
		{Date: &blocked, Status: types.OVERRIDE_BLOCKED},
		{Date: &limited, Status: types.OVERRIDE_LIMITED, CapacityOverride: &cap},
	}
	days := ComputeMonthAvailability(rule, overrides, nil, 2026, time.March)

	// The blocked override carries no capacity of its own and inherits the
	// rule's.
	assert.Equal(t, types.DAY_BLOCKED, days[blocked].Status)
	assert.Equal(t, 2, days[blocked].TotalCount)

	// A Sunday becomes bookable through the limited override.
	assert.Equal(t, types.DAY_LIMITED, days[limited].Status)
	assert.Equal(t, 1, days[limited].TotalCount)
	assert.Equal(t, 1, days[limited].AvailableCount)
}

func TestComputeMonthAvailabilityBookedCounts(t *testing.T) {
	rule := weeklyRule([]int{1, 2, 3, 4, 5})
	booked := map[string]int{
		"2026-03-02": 1,
		"2026-03-03": 5,
	}
	days := ComputeMonthAvailability(rule, nil, booked, 2026, time.March)

	assert.Equal(t, 1, days["2026-03-02"].AvailableCount)
	// Overbooked days clamp to zero instead of going negative.
	assert.Equal(t, 0, days["2026-03-03"].AvailableCount)
	assert.Equal(t, types.DAY_AVAILABLE, days["2026-03-03"].Status)
}

func TestComputeMonthAvailabilityPerSlotCapacity(t *testing.T) {
	rule := weeklyRule([]int{1, 2, 3, 4, 5})
	rule.CapacityType = types.CAPACITY_PER_SLOT
	rule.SlotCapacity = 8
	days := ComputeMonthAvailability(rule, nil, nil, 2026, time.March)

	assert.Equal(t, 8, days["2026-03-02"].TotalCount)
}
