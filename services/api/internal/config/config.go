// Package config loads service configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type App struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	// Geocoding country scope for the external fallback.
	GeocodeRegion string `envconfig:"GEOCODE_REGION" default:"au"`

	SearchRadiusKm float64       `envconfig:"SEARCH_RADIUS_KM" default:"10"`
	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`

	// Comma-separated opaque ids allowed to call admin endpoints.
	AdminUserIDs string `envconfig:"ADMIN_USER_IDS"`

	// Payment gateway; publish falls back to an unavailable error when the
	// keys are unset.
	OmisePublicKey  string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey  string `envconfig:"OMISE_SECRET_KEY"`
	Currency        string `envconfig:"CURRENCY" default:"aud"`
	ListingFeeCents int64  `envconfig:"LISTING_FEE_CENTS" default:"500"`

	// Notification broker; log-only when unset.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"garage-sale"`

	// Tracing; disabled when the endpoint is unset.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Environment  string `envconfig:"ENV" default:"dev"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// AdminIDs returns the configured admin ids as a set.
func (c App) AdminIDs() map[string]struct{} {
	out := make(map[string]struct{})
	for _, id := range strings.Split(c.AdminUserIDs, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

// Origins returns the CORS origin allow-list.
func (c App) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
