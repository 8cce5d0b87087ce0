package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

// AdminListingService is the minimal interface needed by the moderation
// endpoints.
type AdminListingService interface {
	ApproveListing(ctx context.Context, id string) (domain.Listing, error)
	RejectListing(ctx context.Context, id, reason string) (domain.Listing, error)
	ListListings(ctx context.Context, includePast bool) ([]domain.Listing, error)
}

// HandleAdminListings returns the administrative catalog view. Unlike the
// public search, it can include historical listings and re-derives display
// statuses from the date fields.
func HandleAdminListings(svc AdminListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		includePast := r.URL.Query().Get("include_past") == "true"
		listings, err := svc.ListListings(r.Context(), includePast)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]listingResponse, 0, len(listings))
		for _, l := range listings {
			resp = append(resp, toListingResponse(l))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleAdminListingActions routes /admin/listings/{id}/approve and
// /admin/listings/{id}/reject.
func HandleAdminListingActions(svc AdminListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseAdminListingActionPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		switch action {
		case "approve":
			listing, err := svc.ApproveListing(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toListingResponse(listing))

		case "reject":
			var req rejectRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			listing, err := svc.RejectListing(r.Context(), id, req.Reason)
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

type rejectRequest struct {
	Reason string `json:"reason"`
}

func parseAdminListingActionPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", "", false
	}
	if parts[0] != "admin" || parts[1] != "listings" || parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}
