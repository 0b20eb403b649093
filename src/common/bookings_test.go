package common

import (
	"sbs/src/models"
	"sbs/src/types"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestAvailabilityVersionFor(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now()

	req := &models.BookingRequest{
		Stage:          types.STAGE_DATE_SELECTED,
		OfferExpiresAt: now.Add(24 * time.Hour),
	}
	assert.Equal(t, types.VERSION_FULL, AvailabilityVersionFor(req, now))

	// Once the window lapses the request degrades to the limited list.
	assert.Equal(t, types.VERSION_LIMITED, AvailabilityVersionFor(req, now.Add(25*time.Hour)))

	// A paid request keeps the full version no matter how old it is.
	req.Stage = types.STAGE_PAID
	assert.Equal(t, types.VERSION_FULL, AvailabilityVersionFor(req, now.Add(1000*time.Hour)))
}

func TestGenerateTimeSlotsFullGrid(t *testing.T) {
	product := &models.Product{
		FullWindowStart: "09:00",
		FullWindowEnd:   "12:00",
		SlotMinutes:     60,
	}
	slots := GenerateTimeSlots(product, types.VERSION_FULL)

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slots)
}

func TestGenerateTimeSlotsDropsOverrunningTail(t *testing.T) {
	product := &models.Product{
		FullWindowStart: "09:00",
		FullWindowEnd:   "11:30",
		SlotMinutes:     60,
	}
	slots := GenerateTimeSlots(product, types.VERSION_FULL)

	// A 11:00 slot would run past 11:30 and is dropped.
	assert.Equal(t, []string{"09:00", "10:00"}, slots)
}

func TestGenerateTimeSlotsLimited(t *testing.T) {
	product := &models.Product{
		FullWindowStart: "09:00",
		FullWindowEnd:   "18:00",
		SlotMinutes:     60,
		LimitedSlots:    types.StringList{"16:00", "18:00"},
	}
	slots := GenerateTimeSlots(product, types.VERSION_LIMITED)
	assert.Equal(t, []string{"16:00", "18:00"}, slots)

	product.LimitedSlots = nil
	slots = GenerateTimeSlots(product, types.VERSION_LIMITED)
	assert.Equal(t, []string{"16:00", "17:00", "18:00"}, slots)
}

func TestBookingIdentityValidation(t *testing.T) {
	productId := uint(1)
	campaignId := uint(2)
	cardIndex := 0
	userId := uint(3)
	visitorId := faker.UUIDHyphenated()

	cases := []struct {
		name  string
		ident BookingIdentity
		want  error
	}{
		{"product and user", BookingIdentity{ProductID: &productId, UserID: &userId}, nil},
		{"campaign card and visitor", BookingIdentity{CampaignID: &campaignId, CampaignCardIndex: &cardIndex, VisitorID: &visitorId}, nil},
		{"no identity", BookingIdentity{ProductID: &productId}, ErrMissingIdentity},
		{"no target", BookingIdentity{UserID: &userId}, ErrMissingTarget},
		{"campaign without card index", BookingIdentity{CampaignID: &campaignId, UserID: &userId}, ErrMissingTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.ident.valid(), tc.want)
		})
	}
}
