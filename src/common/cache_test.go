package common

import (
	"encoding/json"
	"sbs/src/lib"
	"sbs/src/types"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestGetMonthAvailabilityCacheHit(t *testing.T) {
	rd, mock := redismock.NewClientMock()
	lib.NewRedisClient(rd)
	defer lib.NewRedisClient(nil)

	cached := map[string]DayAvailability{
		"2026-03-02": {Status: types.DAY_AVAILABLE, AvailableCount: 2, TotalCount: 2},
	}
	b, err := json.Marshal(&cached)
	assert.Nil(t, err)
	mock.ExpectGet("availability:1:2026-03").SetVal(string(b))

	days, err := GetMonthAvailability(1, 2026, time.March)
	assert.Nil(t, err)
	assert.Equal(t, cached, days)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInvalidateAvailabilityCacheForProduct(t *testing.T) {
	rd, mock := redismock.NewClientMock()
	lib.NewRedisClient(rd)
	defer lib.NewRedisClient(nil)

	// Two dates in the same month collapse to a single key.
	mock.ExpectDel("availability:7:2026-03").SetVal(1)
	InvalidateAvailabilityCache(7, "2026-03-02", "2026-03-28")

	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestInvalidateAvailabilityCacheSpansMonths(t *testing.T) {
	rd, mock := redismock.NewClientMock()
	lib.NewRedisClient(rd)
	defer lib.NewRedisClient(nil)

	// Month map iteration order is not fixed.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectDel("availability:7:2026-03").SetVal(1)
	mock.ExpectDel("availability:7:2026-04").SetVal(1)
	InvalidateAvailabilityCache(7, "2026-03-31", "2026-04-01")

	assert.Nil(t, mock.ExpectationsWereMet())
}
