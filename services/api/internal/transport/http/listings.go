package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/app"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

// ListingService is the minimal interface needed by the listing endpoints.
type ListingService interface {
	CreateListing(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	UpdateListing(ctx context.Context, id, userID string, in app.UpdateListingInput) (domain.Listing, error)
	DeleteListing(ctx context.Context, id, userID string, isAdmin bool) error
}

// HandleListings returns an HTTP handler for creating listings.
func HandleListings(svc ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userIDHeader+" header")
			return
		}

		var req listingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		startDate, err := domain.NormalizeDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date")
			return
		}
		endDate, err := domain.NormalizeDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date")
			return
		}

		listing, err := svc.CreateListing(r.Context(), app.CreateListingInput{
			Title:       req.Title,
			Description: req.Description,
			Address:     req.Address,
			Suburb:      req.Suburb,
			Postcode:    req.Postcode,
			State:       req.State,
			StartDate:   startDate,
			EndDate:     endDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			CreatedBy:   userID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toListingResponse(listing))
	}
}

// HandleListingByID returns an HTTP handler for fetching, editing and
// deleting a single listing.
func HandleListingByID(svc ListingService, adminIDs map[string]struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseListingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			listing, err := svc.GetListing(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toListingResponse(listing))

		case http.MethodPatch:
			userID := callerID(r)
			if userID == "" {
				writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userIDHeader+" header")
				return
			}

			var req updateListingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			in := app.UpdateListingInput{
				Title:       req.Title,
				Description: req.Description,
				Address:     req.Address,
				Suburb:      req.Suburb,
				Postcode:    req.Postcode,
				State:       req.State,
				StartTime:   req.StartTime,
				EndTime:     req.EndTime,
			}
			if req.StartDate != nil {
				d, err := domain.NormalizeDate(*req.StartDate)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date")
					return
				}
				in.StartDate = &d
			}
			if req.EndDate != nil {
				d, err := domain.NormalizeDate(*req.EndDate)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date")
					return
				}
				in.EndDate = &d
			}

			listing, err := svc.UpdateListing(r.Context(), id, userID, in)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toListingResponse(listing))

		case http.MethodDelete:
			userID := callerID(r)
			if userID == "" {
				writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userIDHeader+" header")
				return
			}
			_, isAdmin := adminIDs[userID]
			if err := svc.DeleteListing(r.Context(), id, userID, isAdmin); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type listingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Suburb      string `json:"suburb"`
	Postcode    string `json:"postcode"`
	State       string `json:"state"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type updateListingRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Suburb      *string `json:"suburb"`
	Postcode    *string `json:"postcode"`
	State       *string `json:"state"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

type listingResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Address         string    `json:"address"`
	Suburb          string    `json:"suburb"`
	Postcode        string    `json:"postcode"`
	State           string    `json:"state"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	StartTime       string    `json:"start_time,omitempty"`
	EndTime         string    `json:"end_time,omitempty"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	IsFreeListing   bool      `json:"is_free_listing"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toListingResponse(l domain.Listing) listingResponse {
	resp := listingResponse{
		ID:              l.ID,
		Title:           l.Title,
		Description:     l.Description,
		Address:         l.Address,
		Suburb:          l.Suburb,
		Postcode:        l.Postcode,
		State:           l.State,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		StartTime:       l.StartTime,
		EndTime:         l.EndTime,
		Status:          string(l.Status),
		PaymentStatus:   string(l.PaymentStatus),
		IsFreeListing:   l.IsFreeListing,
		RejectionReason: l.RejectionReason,
		CreatedBy:       l.CreatedBy,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if !l.StartDate.IsZero() {
		resp.StartDate = l.StartDate.String()
	}
	if !l.EndDate.IsZero() {
		resp.EndDate = l.EndDate.String()
	}
	return resp
}

func parseListingPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "listings" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
