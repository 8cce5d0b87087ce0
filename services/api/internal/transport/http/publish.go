package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/app"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

// Publisher is the minimal interface needed by the publication endpoints.
type Publisher interface {
	PublishListing(ctx context.Context, id, userID string) (app.PublishResult, error)
	CompletePayment(ctx context.Context, id string) (domain.Listing, error)
}

// HandleListingActions routes /listings/{id}/publish and
// /listings/{id}/payment-complete.
func HandleListingActions(svc Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseListingActionPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		switch action {
		case "publish":
			userID := callerID(r)
			if userID == "" {
				writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userIDHeader+" header")
				return
			}
			res, err := svc.PublishListing(r.Context(), id, userID)
			if err != nil {
				writeDomainError(w, err)
				return
			}

			resp := publishResponse{
				Listing: toListingResponse(res.Listing),
				Free:    res.Free,
			}
			if res.Checkout != nil {
				resp.Checkout = &checkoutResponse{
					ID:         res.Checkout.ID,
					PaymentURI: res.Checkout.PaymentURI,
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)

		case "payment-complete":
			listing, err := svc.CompletePayment(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toListingResponse(listing))

		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

type publishResponse struct {
	Listing  listingResponse   `json:"listing"`
	Free     bool              `json:"free"`
	Checkout *checkoutResponse `json:"checkout,omitempty"`
}

type checkoutResponse struct {
	ID         string `json:"id"`
	PaymentURI string `json:"payment_uri"`
}

func parseListingActionPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", "", false
	}
	if parts[0] != "listings" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
