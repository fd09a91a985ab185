package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func gatewayTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", GatewayAuthMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userId": GetUserID(c),
			"email":  GetUserEmail(c),
		})
	})
	return app
}

func TestGatewayAuth_TrustsProxyHeaders(t *testing.T) {
	app := gatewayTestApp()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(headerUserID, "user-7")
	req.Header.Set(headerUserEmail, "user@example.com")
	req.Header.Set(headerUserName, "User Seven")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGatewayAuth_RejectsMissingIdentity(t *testing.T) {
	app := gatewayTestApp()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(headerUserEmail, "user@example.com") // id header absent

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
