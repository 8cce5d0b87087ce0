package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/garage_sale")
	t.Setenv("ADMIN_USER_IDS", "admin-1, admin-2,,")
	t.Setenv("SWEEP_INTERVAL", "30m")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "8080" {
		t.Fatalf("expected default port, got %q", c.Port)
	}
	if c.SweepInterval != 30*time.Minute {
		t.Fatalf("expected 30m sweep interval, got %v", c.SweepInterval)
	}
	if c.ListingFeeCents != 500 {
		t.Fatalf("expected default listing fee, got %d", c.ListingFeeCents)
	}

	admins := c.AdminIDs()
	if len(admins) != 2 {
		t.Fatalf("expected 2 admin ids, got %v", admins)
	}
	if _, ok := admins["admin-2"]; !ok {
		t.Fatalf("expected admin-2 in the set")
	}

	origins := c.Origins()
	if len(origins) != 2 {
		t.Fatalf("expected the default origin list, got %v", origins)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	orig, had := os.LookupEnv("DATABASE_URL")
	os.Unsetenv("DATABASE_URL")
	t.Cleanup(func() {
		if had {
			os.Setenv("DATABASE_URL", orig)
		}
	})

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error without DATABASE_URL")
	}
}
