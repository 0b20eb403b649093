package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

type CheckoutParams struct {
	PriceID       string
	Metadata      map[string]string
	CustomerEmail string
	ExpiresAt     time.Time
}

// CreateBookingCheckout opens a hosted checkout session for one shoot
// package. The session expiry is aligned with the slot hold TTL so an
// abandoned checkout frees the slot on the same schedule on both sides.
func CreateBookingCheckout(params *CheckoutParams) (*stripe.CheckoutSession, error) {
	sc := GetStripeClient()
	successUrl := fmt.Sprintf("%s/checkout/callback/success", os.Getenv("APP_HOST"))
	cancelUrl := fmt.Sprintf("%s/checkout/callback/cancel", os.Getenv("APP_HOST"))
	piParams := &stripe.CheckoutSessionCreatePaymentIntentDataParams{}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}
	createParams := stripe.CheckoutSessionCreateParams{
		SuccessURL:        stripe.String(successUrl),
		CancelURL:         stripe.String(cancelUrl),
		UIMode:            stripe.String("hosted"),
		Mode:              stripe.String("payment"),
		PaymentIntentData: piParams,
		ExpiresAt:         stripe.Int64(params.ExpiresAt.Unix()),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: params.Metadata,
	}
	if params.CustomerEmail != "" {
		createParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	checkoutSession, err := sc.V1CheckoutSessions.Create(context.Background(), &createParams)
	if err != nil {
		log.Printf("CreateBookingCheckout failed: %s\n", err.Error())
		return nil, err
	}
	log.Printf("CheckoutSessionID: %s\n", checkoutSession.ID)
	return checkoutSession, nil
}
