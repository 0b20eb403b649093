package main

import (
	"errors"
	"log"
	"net/http"
	"sbs/src/common"
	"sbs/src/db"
	"sbs/src/lib"
	"sbs/src/models"
	"sbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func identityFromContext(ctx *gin.Context) (userId *uint, visitorId *string) {
	if id := ctx.GetUint("id"); id > 0 {
		userId = &id
	}
	if vid := ctx.GetString("visitor_id"); vid != "" {
		visitorId = &vid
	}
	return
}

func requestOwnedBy(req *models.BookingRequest, userId *uint, visitorId *string) bool {
	if req.UserID != nil {
		return userId != nil && *req.UserID == *userId
	}
	if req.VisitorID != nil {
		return visitorId != nil && *req.VisitorID == *visitorId
	}
	return false
}

func loadOwnedRequest(ctx *gin.Context) (*models.BookingRequest, bool) {
	requestId, err := uuid.Parse(ctx.Params.ByName("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed request id"})
		return nil, false
	}
	var req models.BookingRequest
	db := db.GetDb()
	if err := db.Where("id = ?", requestId).First(&req).Error; err != nil {
		ctx.Status(http.StatusNotFound)
		return nil, false
	}
	userId, visitorId := identityFromContext(ctx)
	if !requestOwnedBy(&req, userId, visitorId) {
		ctx.Status(http.StatusNotFound)
		return nil, false
	}
	return &req, true
}

// bookingHandlers mounts the public booking flow. The caller wraps the group
// with the visitor middleware so every route has a user or visitor identity.
func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/booking-requests", func(ctx *gin.Context) {
			var body types.CreateBookingRequestRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId, visitorId := identityFromContext(ctx)
			req, version, err := common.FindOrCreateBookingRequest(common.BookingIdentity{
				ProductID:         body.ProductID,
				CampaignID:        body.CampaignID,
				CampaignCardIndex: body.CampaignCardIndex,
				UserID:            userId,
				VisitorID:         visitorId,
			}, body.EventDate, body.Timezone)
			if err != nil {
				if errors.Is(err, common.ErrMissingTarget) || errors.Is(err, common.ErrMissingIdentity) {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown product"})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": req, "availability_version": version})
		}).
		GET("/booking-requests/:id/slots", func(ctx *gin.Context) {
			req, ok := loadOwnedRequest(ctx)
			if !ok {
				return
			}
			version := common.AvailabilityVersionFor(req, lib.GetClock().Now())
			var slots []string
			if req.ProductID != nil {
				var product models.Product
				db := db.GetDb()
				if err := db.Where("id = ?", *req.ProductID).First(&product).Error; err != nil {
					ctx.Status(http.StatusNotFound)
					return
				}
				slots = common.GenerateTimeSlots(&product, version)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "availability_version": version})
		}).
		PATCH("/booking-requests/:id/time", func(ctx *gin.Context) {
			var body types.SelectTimeRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			req, ok := loadOwnedRequest(ctx)
			if !ok {
				return
			}
			updated, err := common.UpdateSelectedTime(req.ID, body.Time)
			if err != nil {
				log.Printf("Could not update selected time for [%s]: %s\n", req.ID.String(), err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		POST("/booking-requests/:id/checkout", func(ctx *gin.Context) {
			var body types.StartCheckoutRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			req, ok := loadOwnedRequest(ctx)
			if !ok {
				return
			}
			email := body.CustomerEmail
			if email == "" {
				email = ctx.GetString("email")
			}
			url, err := common.StartCheckout(req.ID, email)
			if err != nil {
				switch {
				case errors.Is(err, common.ErrSlotAlreadyBooked),
					errors.Is(err, common.ErrSlotCurrentlyHeld),
					errors.Is(err, common.ErrSlotJustTaken):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, common.ErrNoSelectedTime):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				default:
					log.Printf("Could not start checkout for [%s]: %s\n", req.ID.String(), err.Error())
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		})
	return g
}

// meHandlers mounts the authenticated user surface. Linking carries the
// pre-login browsing history over to the account explicitly and leaves an
// audit trail; nothing is merged implicitly at login time.
func meHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/me/booking-requests", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var requests []models.BookingRequest
			if err := db.
				Model(&models.BookingRequest{}).
				Where("user_id = ?", userId).
				Order("last_seen_at DESC").
				Find(&requests).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": requests, "count": len(requests)})
		}).
		GET("/me/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where("user_id = ?", userId).
				Preload("Product").
				Order("event_date DESC").
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		POST("/me/link-visitor", func(ctx *gin.Context) {
			var body types.LinkVisitorRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var linked int64
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				res := tx.
					Model(&models.BookingRequest{}).
					Where("visitor_id = ?", body.VisitorID).
					Where("user_id IS NULL").
					Updates(map[string]any{"user_id": userId, "visitor_id": nil})
				if res.Error != nil {
					return res.Error
				}
				linked = res.RowsAffected
				return common.AppendAuditLog(tx, "visitor_link", &userId, types.JSONB{
					"visitor_id": body.VisitorID,
					"linked":     linked,
				})
			})
			if err != nil {
				log.Printf("Could not link visitor [%s]: %s\n", body.VisitorID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"linked": linked})
		})
	return g
}
