package httpserver

import (
	"context"
	"testing"

	"isletmenum/app/auth"

	"github.com/gofiber/fiber/v2"
)

type loginCapture struct {
	got auth.LoginRequest
}

func (h *loginCapture) Handle(_ context.Context, req *auth.LoginRequest) (*fiber.Map, error) {
	h.got = *req
	return &fiber.Map{}, nil
}

func TestHandleSetsClientIPFromConnection(t *testing.T) {
	capture := &loginCapture{}
	app := fiber.New(fiber.Config{ErrorHandler: writeError})
	app.Post("/login", handle[auth.LoginRequest, fiber.Map](capture))

	req := jsonRequest(fiber.MethodPost, "/login?ClientIP=10.9.9.9", "", fiber.Map{
		"email":    "a@b.com",
		"password": "pw",
		"ClientIP": "10.9.9.9",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if capture.got.Email != "a@b.com" {
		t.Errorf("email = %q", capture.got.Email)
	}
	if capture.got.ClientIP == "" || capture.got.ClientIP == "10.9.9.9" {
		t.Errorf("ClientIP = %q, want the connection address", capture.got.ClientIP)
	}
}
