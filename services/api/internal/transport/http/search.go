package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/app"
)

// Searcher is the minimal interface needed by the discovery endpoint.
type Searcher interface {
	Search(ctx context.Context, in app.SearchInput) (app.SearchResult, error)
}

// HandleSearch returns the public discovery handler.
func HandleSearch(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		var radius float64
		if raw := q.Get("radius_km"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid radius_km")
				return
			}
			radius = parsed
		}

		res, err := svc.Search(r.Context(), app.SearchInput{
			Location: q.Get("location"),
			RadiusKm: radius,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := searchResponse{
			RadiusKm: res.RadiusKm,
			Listings: make([]listingResponse, 0, len(res.Listings)),
		}
		if res.Origin != nil {
			resp.Origin = &coordinatesResponse{
				Latitude:  res.Origin.Latitude,
				Longitude: res.Origin.Longitude,
			}
		}
		for _, l := range res.Listings {
			resp.Listings = append(resp.Listings, toListingResponse(l))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type coordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	// Origin is null when the location text could not be resolved; the
	// listings are then not distance-filtered.
	Origin   *coordinatesResponse `json:"origin"`
	RadiusKm float64              `json:"radius_km"`
	Listings []listingResponse    `json:"listings"`
}
