package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"sbs/src/common"
	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			// Async payment methods complete the session before the money
			// clears; those sessions are settled by the async event later.
			if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
				log.Printf("[Stripe] Session %s completed but not paid (%s), skipping\n", cs.ID, cs.PaymentStatus)
				break
			}
			if err := common.CompletePaidCheckout(&cs); err != nil {
				log.Printf("[Stripe] Error completing session %s: %s\n", cs.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "checkout.session.async_payment_succeeded":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			if err := common.CompletePaidCheckout(&cs); err != nil {
				log.Printf("[Stripe] Error completing session %s: %s\n", cs.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			holdId, err := uuid.Parse(cs.Metadata["hold_id"])
			if err != nil {
				break
			}
			db := db.GetDb()
			if err := db.
				Model(&models.BookingSlotHold{}).
				Where("id = ?", holdId).
				Where("status = ?", types.HOLD_ACTIVE).
				Update("status", types.HOLD_EXPIRED).
				Error; err != nil {
				log.Printf("[Stripe] Error expiring hold [%s]: %s\n", holdId.String(), err.Error())
			}
		default:
			log.Printf("[Stripe] Unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
