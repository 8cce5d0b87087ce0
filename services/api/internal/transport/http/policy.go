package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/app"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

// PolicyService is the minimal interface needed by the policy endpoints.
type PolicyService interface {
	Current(ctx context.Context) (domain.FreePeriodPolicy, error)
	UpdatePolicy(ctx context.Context, in app.UpdatePolicyInput) (domain.FreePeriodPolicy, error)
}

// HandleAdminPolicy serves the singleton free-period policy.
func HandleAdminPolicy(svc PolicyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			policy, err := svc.Current(r.Context())
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, codeInternalError, "policy store unavailable")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toPolicyResponse(policy))

		case http.MethodPut:
			var req updatePolicyRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			in := app.UpdatePolicyInput{IsActive: req.IsActive}
			if req.FreeListingStart != nil {
				d, err := domain.NormalizeDate(*req.FreeListingStart)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid free_listing_start")
					return
				}
				in.FreeListingStart = &d
			}
			if req.FreeListingEnd != nil {
				d, err := domain.NormalizeDate(*req.FreeListingEnd)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid free_listing_end")
					return
				}
				in.FreeListingEnd = &d
			}

			policy, err := svc.UpdatePolicy(r.Context(), in)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toPolicyResponse(policy))

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type updatePolicyRequest struct {
	IsActive         *bool   `json:"is_active"`
	FreeListingStart *string `json:"free_listing_start"`
	FreeListingEnd   *string `json:"free_listing_end"`
}

type policyResponse struct {
	IsActive         bool   `json:"is_active"`
	FreeListingStart string `json:"free_listing_start,omitempty"`
	FreeListingEnd   string `json:"free_listing_end,omitempty"`
	// Provisional marks a value that has not reached the primary store yet.
	Provisional bool `json:"provisional,omitempty"`
}

func toPolicyResponse(p domain.FreePeriodPolicy) policyResponse {
	resp := policyResponse{
		IsActive:    p.IsActive,
		Provisional: p.Provisional,
	}
	if !p.FreeListingStart.IsZero() {
		resp.FreeListingStart = p.FreeListingStart.String()
	}
	if !p.FreeListingEnd.IsZero() {
		resp.FreeListingEnd = p.FreeListingEnd.String()
	}
	return resp
}
