package common

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sbs/src/config"
	"sbs/src/db"
	"sbs/src/lib"
	"sbs/src/models"
	"sbs/src/types"
	"sbs/src/utils"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

var (
	ErrSlotAlreadyBooked = errors.New("this time is already booked")
	ErrSlotCurrentlyHeld = errors.New("this time is currently held by another user, try a different slot")
	ErrSlotJustTaken     = errors.New("this time was just taken, pick another slot")
	ErrMissingIdentity   = errors.New("booking request needs a user or visitor identity")
	ErrMissingTarget     = errors.New("booking request needs a product or a campaign card")
	ErrNoSelectedTime    = errors.New("no time selected for this booking request")
)

// BookingIdentity is the lookup key for a request: the bookable target
// (product XOR campaign+card) plus who is asking (user XOR visitor).
type BookingIdentity struct {
	ProductID         *uint
	CampaignID        *uint
	CampaignCardIndex *int
	UserID            *uint
	VisitorID         *string
}

func (b BookingIdentity) valid() error {
	if b.UserID == nil && b.VisitorID == nil {
		return ErrMissingIdentity
	}
	if b.ProductID == nil && (b.CampaignID == nil || b.CampaignCardIndex == nil) {
		return ErrMissingTarget
	}
	return nil
}

// AvailabilityVersionFor derives the slot-list version on every read: the
// full grid while the offer window is open or once the request is paid, the
// curated limited list after the window lapses.
func AvailabilityVersionFor(req *models.BookingRequest, now time.Time) types.AvailabilityVersion {
	if req.Stage == types.STAGE_PAID || now.Before(req.OfferExpiresAt) {
		return types.VERSION_FULL
	}
	return types.VERSION_LIMITED
}

func offerWindowFor(product *models.Product) time.Duration {
	hours := config.GetEnvInt("OFFER_WINDOW_HOURS", config.OFFER_WINDOW_HOURS_DEFAULT)
	if product != nil && product.OfferWindowHours > 0 {
		hours = product.OfferWindowHours
	}
	return time.Duration(hours) * time.Hour
}

func holdTTL() time.Duration {
	return time.Duration(config.GetEnvInt("CHECKOUT_HOLD_MINUTES", config.CHECKOUT_HOLD_MINUTES)) * time.Minute
}

func slotMinutesFor(product *models.Product) int {
	if product != nil && product.SlotMinutes > 0 {
		return product.SlotMinutes
	}
	return config.SLOT_MINUTES_DEFAULT
}

// FindOrCreateBookingRequest reuses the existing row for the identity key
// and touches last_seen_at, or creates a fresh one with the offer window
// opened. The stage is never regressed on reuse.
func FindOrCreateBookingRequest(ident BookingIdentity, eventDate, timezone string) (*models.BookingRequest, types.AvailabilityVersion, error) {
	if err := ident.valid(); err != nil {
		return nil, "", err
	}
	if timezone == "" {
		timezone = config.DEFAULT_TIMEZONE
	}
	now := lib.GetClock().Now()
	var req models.BookingRequest
	dbi := db.GetDb()
	err := dbi.Transaction(func(tx *gorm.DB) error {
		q := tx.
			Model(&models.BookingRequest{}).
			Where("event_date = ?", eventDate)
		if ident.ProductID != nil {
			q = q.Where("product_id = ?", *ident.ProductID)
		} else {
			q = q.Where("campaign_id = ? AND campaign_card_index = ?", *ident.CampaignID, *ident.CampaignCardIndex)
		}
		if ident.UserID != nil {
			q = q.Where("user_id = ?", *ident.UserID)
		} else {
			q = q.Where("visitor_id = ?", *ident.VisitorID)
		}
		err := q.First(&req).Error
		if err == nil {
			return tx.
				Model(&models.BookingRequest{}).
				Where("id = ?", req.ID).
				Update("last_seen_at", now).
				Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var product *models.Product
		if ident.ProductID != nil {
			var p models.Product
			if err := tx.Where(&models.Product{ID: *ident.ProductID}).First(&p).Error; err != nil {
				return err
			}
			product = &p
		}
		req = models.BookingRequest{
			ProductID:         ident.ProductID,
			CampaignID:        ident.CampaignID,
			CampaignCardIndex: ident.CampaignCardIndex,
			UserID:            ident.UserID,
			VisitorID:         ident.VisitorID,
			EventDate:         eventDate,
			Timezone:          timezone,
			Stage:             types.STAGE_DATE_SELECTED,
			OfferExpiresAt:    now.Add(offerWindowFor(product)),
			LastSeenAt:        now,
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		log.Printf("FindOrCreateBookingRequest failed: %s\n", err.Error())
		return nil, "", err
	}
	req.LastSeenAt = now
	return &req, AvailabilityVersionFor(&req, now), nil
}

// UpdateSelectedTime records the chosen slot. Free-ness is not checked
// here; the hold at checkout time is the authority on that.
func UpdateSelectedTime(requestId uuid.UUID, selectedTime string) (*models.BookingRequest, error) {
	var req models.BookingRequest
	dbi := db.GetDb()
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", requestId).First(&req).Error; err != nil {
			return err
		}
		updates := map[string]any{"selected_time": selectedTime}
		if req.Stage == types.STAGE_DATE_SELECTED {
			updates["stage"] = types.STAGE_TIME_SELECTED
			req.Stage = types.STAGE_TIME_SELECTED
		}
		req.SelectedTime = &selectedTime
		return tx.
			Model(&models.BookingRequest{}).
			Where("id = ?", requestId).
			Updates(updates).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GenerateTimeSlots returns the offerable start times for a product. The
// limited version is the curated short list; the full version is the whole
// grid between the window bounds, dropping a trailing slot that would
// overrun the end.
func GenerateTimeSlots(product *models.Product, version types.AvailabilityVersion) []string {
	if version == types.VERSION_LIMITED {
		if len(product.LimitedSlots) > 0 {
			return []string(product.LimitedSlots)
		}
		return []string{"16:00", "17:00", "18:00"}
	}

	start, err := time.Parse(config.TIME_FORMAT, product.FullWindowStart)
	if err != nil {
		start, _ = time.Parse(config.TIME_FORMAT, "09:00")
	}
	end, err := time.Parse(config.TIME_FORMAT, product.FullWindowEnd)
	if err != nil {
		end, _ = time.Parse(config.TIME_FORMAT, "18:00")
	}
	dur := time.Duration(slotMinutesFor(product)) * time.Minute
	var slots []string
	for t := start; !t.Add(dur).After(end); t = t.Add(dur) {
		slots = append(slots, t.Format(config.TIME_FORMAT))
	}
	return slots
}

// CreateSlotHold claims (productId, eventDate, startTime) exclusively for
// the checkout window. A converted hold means the slot is sold; a live
// active hold means someone else is mid-checkout; a lapsed active hold is
// expired in place and superseded. The partial unique index at the store is
// the final backstop, so a duplicate-key error maps to "just taken" rather
// than a system error.
func CreateSlotHold(tx *gorm.DB, requestId uuid.UUID, productId uint, eventDate, startTime, endTime string) (*models.BookingSlotHold, error) {
	now := lib.GetClock().Now()
	var existing models.BookingSlotHold
	err := tx.
		Model(&models.BookingSlotHold{}).
		Where("product_id = ? AND event_date = ? AND start_time = ?", productId, eventDate, startTime).
		Where("status IN ?", []types.HoldStatus{types.HOLD_ACTIVE, types.HOLD_CONVERTED}).
		First(&existing).
		Error
	if err == nil {
		switch {
		case existing.Status == types.HOLD_CONVERTED:
			return nil, ErrSlotAlreadyBooked
		case now.Before(existing.ExpiresAt):
			return nil, ErrSlotCurrentlyHeld
		default:
			if err := tx.
				Model(&models.BookingSlotHold{}).
				Where("id = ?", existing.ID).
				Update("status", types.HOLD_EXPIRED).
				Error; err != nil {
				return nil, err
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hold := models.BookingSlotHold{
		BookingRequestID: requestId,
		ProductID:        productId,
		EventDate:        eventDate,
		StartTime:        startTime,
		EndTime:          endTime,
		Status:           types.HOLD_ACTIVE,
		ExpiresAt:        now.Add(holdTTL()),
	}
	if err := tx.Create(&hold).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotJustTaken
		}
		return nil, err
	}
	return &hold, nil
}

// StartCheckout places the slot hold, advances the request to
// checkout_started and opens the Stripe session with the hold and request
// ids in the payment metadata. The session expiry matches the hold TTL.
func StartCheckout(requestId uuid.UUID, customerEmail string) (*string, error) {
	dbi := db.GetDb()
	var req models.BookingRequest
	var hold *models.BookingSlotHold
	var priceId string
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", requestId).First(&req).Error; err != nil {
			return err
		}
		if req.SelectedTime == nil {
			return ErrNoSelectedTime
		}

		if req.ProductID != nil {
			var product models.Product
			if err := tx.Where(&models.Product{ID: *req.ProductID}).First(&product).Error; err != nil {
				return err
			}
			if product.StripePriceId == nil {
				return fmt.Errorf("product [%d] has no price configured", product.ID)
			}
			priceId = *product.StripePriceId

			endTime, err := utils.AddMinutes(*req.SelectedTime, slotMinutesFor(&product))
			if err != nil {
				return err
			}
			h, err := CreateSlotHold(tx, req.ID, product.ID, req.EventDate, *req.SelectedTime, endTime)
			if err != nil {
				return err
			}
			hold = h
		} else {
			// Campaign cards are fixed-price mini offers without slot
			// exclusivity; they go straight to payment.
			var card models.CampaignCard
			if err := tx.
				Where("campaign_id = ? AND card_index = ?", *req.CampaignID, *req.CampaignCardIndex).
				First(&card).
				Error; err != nil {
				return err
			}
			if card.StripePriceId == nil {
				return fmt.Errorf("campaign card [%d:%d] has no price configured", *req.CampaignID, *req.CampaignCardIndex)
			}
			priceId = *card.StripePriceId
		}

		return tx.
			Model(&models.BookingRequest{}).
			Where("id = ?", req.ID).
			Update("stage", types.STAGE_CHECKOUT_STARTED).
			Error
	})
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"booking_request_id": req.ID.String(),
		"event_date":         req.EventDate,
		"selected_time":      *req.SelectedTime,
	}
	if req.ProductID != nil {
		metadata["product_id"] = strconv.FormatUint(uint64(*req.ProductID), 10)
	}
	if req.CampaignID != nil {
		metadata["package_id"] = strconv.FormatUint(uint64(*req.CampaignID), 10)
	}
	if hold != nil {
		metadata["hold_id"] = hold.ID.String()
	}
	if req.UserID != nil {
		metadata["user_id"] = strconv.FormatUint(uint64(*req.UserID), 10)
	}
	if req.VisitorID != nil {
		metadata["visitor_id"] = *req.VisitorID
	}

	now := lib.GetClock().Now()
	cs, err := lib.CreateBookingCheckout(&lib.CheckoutParams{
		PriceID:       priceId,
		Metadata:      metadata,
		CustomerEmail: customerEmail,
		ExpiresAt:     now.Add(holdTTL()),
	})
	if err != nil {
		return nil, err
	}

	if err := dbi.
		Model(&models.BookingRequest{}).
		Where("id = ?", req.ID).
		Update("stripe_checkout_session_id", cs.ID).
		Error; err != nil {
		log.Printf("Error storing checkout session for request [%s]: %s\n", req.ID.String(), err.Error())
	}
	return &cs.URL, nil
}

// CompletePaidCheckout converts a verified paid checkout session into the
// permanent booking. Only the Booking insert must succeed; every later step
// is best-effort and logged, never escalated, so the gateway gets a success
// response and does not redeliver. A duplicate session id means the event
// was already processed and is answered with success.
func CompletePaidCheckout(cs *stripe.CheckoutSession) error {
	md := cs.Metadata
	requestId, err := uuid.Parse(md["booking_request_id"])
	if err != nil {
		return fmt.Errorf("invalid booking_request_id in metadata: %s", err.Error())
	}

	var productId, packageId, userId *uint
	if v, err := strconv.Atoi(md["product_id"]); err == nil {
		u := uint(v)
		productId = &u
	}
	if v, err := strconv.Atoi(md["package_id"]); err == nil {
		u := uint(v)
		packageId = &u
	}
	if v, err := strconv.Atoi(md["user_id"]); err == nil {
		u := uint(v)
		userId = &u
	}
	eventDate := md["event_date"]
	startTime := md["selected_time"]

	dbi := db.GetDb()

	// The hold placed at checkout derived its end time from the product, so
	// the booking resolves its duration from the same place.
	slotMinutes := config.SLOT_MINUTES_DEFAULT
	if productId != nil {
		var product models.Product
		if err := dbi.Where(&models.Product{ID: *productId}).First(&product).Error; err == nil {
			slotMinutes = slotMinutesFor(&product)
		}
	}
	endTime, err := utils.AddMinutes(startTime, slotMinutes)
	if err != nil {
		endTime = startTime
	}

	var customerName, customerEmail string
	if cs.CustomerDetails != nil {
		customerName = cs.CustomerDetails.Name
		customerEmail = cs.CustomerDetails.Email
	}

	booking := models.Booking{
		BookingRequestID:        requestId,
		ProductID:               productId,
		PackageID:               packageId,
		EventDate:               eventDate,
		StartTime:               startTime,
		EndTime:                 endTime,
		Status:                  types.BOOKING_CONFIRMED,
		StripeCheckoutSessionId: &cs.ID,
		PaymentIntentId:         paymentIntentId(cs),
		AmountPaid:              cs.AmountTotal,
		Currency:                string(cs.Currency),
		CustomerName:            customerName,
		CustomerEmail:           customerEmail,
		UserID:                  userId,
	}
	if err := dbi.Create(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[Checkout] Session %s already processed\n", cs.ID)
			return nil
		}
		return err
	}

	if holdId, err := uuid.Parse(md["hold_id"]); err == nil {
		if err := dbi.
			Model(&models.BookingSlotHold{}).
			Where("id = ?", holdId).
			Update("status", types.HOLD_CONVERTED).
			Error; err != nil {
			log.Printf("[Checkout] Error converting hold [%s]: %s\n", holdId.String(), err.Error())
		}
	}

	if err := dbi.
		Model(&models.BookingRequest{}).
		Where("id = ?", requestId).
		Update("stage", types.STAGE_PAID).
		Error; err != nil {
		log.Printf("[Checkout] Error advancing request [%s] to paid: %s\n", requestId.String(), err.Error())
	}

	if userId != nil {
		now := lib.GetClock().Now()
		if err := dbi.
			Model(&models.User{}).
			Where("id = ?", *userId).
			Updates(&models.User{DashboardActive: true, ActivatedAt: &now}).
			Error; err != nil {
			log.Printf("[Checkout] Error activating dashboard for user [%d]: %s\n", *userId, err.Error())
		}
	}

	if customerEmail != "" {
		go sendBookingConfirmation(&booking)
	}
	scheduleShootReminder(&booking)

	lib.RelayAutomationEvent("booking.completed", map[string]any{
		"booking_id":     booking.ID,
		"request_id":     requestId.String(),
		"product_id":     productId,
		"package_id":     packageId,
		"event_date":     eventDate,
		"start_time":     startTime,
		"amount_paid":    booking.AmountPaid,
		"currency":       booking.Currency,
		"customer_name":  customerName,
		"customer_email": customerEmail,
		"payment_ref":    cs.ID,
	})

	InvalidateAvailabilityCache(0, eventDate)
	return nil
}

func paymentIntentId(cs *stripe.CheckoutSession) *string {
	if cs.PaymentIntent == nil {
		return nil
	}
	return &cs.PaymentIntent.ID
}

func sendBookingConfirmation(booking *models.Booking) {
	body := fmt.Sprintf(
		"Hi %s,\n\nyour shoot on %s at %s is confirmed. We look forward to seeing you!\n",
		booking.CustomerName, booking.EventDate, booking.StartTime,
	)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: os.Getenv("MAIL_FROM_NAME"),
		To:       []string{booking.CustomerEmail},
		Subject:  "Your booking is confirmed",
		Body:     body,
	})
	if err != nil {
		log.Printf("[Mail] Error sending confirmation for booking [%d]: %s\n", booking.ID, err.Error())
	}
}

// scheduleShootReminder queues a one-time reminder two days before the
// shoot. Best-effort: a scheduling failure is logged and the completion
// flow carries on.
func scheduleShootReminder(booking *models.Booking) {
	if booking.CustomerEmail == "" {
		return
	}
	date, err := utils.ParseDate(booking.EventDate)
	if err != nil {
		return
	}
	runsAt := date.AddDate(0, 0, -2)
	if runsAt.Before(lib.GetClock().Now()) {
		return
	}
	bookingId := booking.ID
	email := booking.CustomerEmail
	name := booking.CustomerName
	eventDate := booking.EventDate
	startTime := booking.StartTime
	id, err := lib.CreateOneTimeJob(runsAt, func() {
		body := fmt.Sprintf("Hi %s,\n\njust a reminder: your shoot is on %s at %s.\n", name, eventDate, startTime)
		if err := lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("MAIL_FROM"),
			FromName: os.Getenv("MAIL_FROM_NAME"),
			To:       []string{email},
			Subject:  "Your shoot is coming up",
			Body:     body,
		}); err != nil {
			log.Printf("[Mail] Error sending reminder for booking [%d]: %s\n", bookingId, err.Error())
		}
	})
	if err != nil {
		log.Printf("Error scheduling reminder for booking [%d]: %s\n", booking.ID, err.Error())
		return
	}
	log.Printf("Scheduled reminder for booking [%d] with job ID %s\n", booking.ID, *id)
}
