package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

func TestHealthOK(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", NewHealthHandler(&stubPinger{}, "redis").Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status       string `json:"status"`
		Database     string `json:"database"`
		GalleryCache string `json:"gallery_cache"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "ok" || body.Database != "up" || body.GalleryCache != "redis" {
		t.Errorf("got %+v", body)
	}
}

func TestHealthDegraded(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", NewHealthHandler(&stubPinger{err: errors.New("connection refused")}, "memory").Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("got status %d, want 503", resp.StatusCode)
	}
}
