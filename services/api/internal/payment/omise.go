// Package payment adapts the Omise gateway to the listing publication flow.
package payment

import (
	"context"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/app"
)

// OmiseGateway issues payment links as checkout handles. Completion comes
// back out-of-band through the payment-complete callback, never inline.
type OmiseGateway struct {
	client   *omise.Client
	currency string
}

func NewOmiseGateway(publicKey, secretKey, currency string) (*OmiseGateway, error) {
	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	return &OmiseGateway{client: client, currency: currency}, nil
}

func (g *OmiseGateway) CreateCheckout(_ context.Context, listingID, title string, amountCents int64) (app.Checkout, error) {
	link := &omise.Link{}
	err := g.client.Do(link, &operations.CreateLink{
		Amount:      amountCents,
		Currency:    g.currency,
		Title:       fmt.Sprintf("Listing fee: %s", title),
		Description: fmt.Sprintf("Publication fee for listing %s", listingID),
	})
	if err != nil {
		return app.Checkout{}, fmt.Errorf("create payment link: %w", err)
	}
	return app.Checkout{ID: link.ID, PaymentURI: link.PaymentURI}, nil
}
