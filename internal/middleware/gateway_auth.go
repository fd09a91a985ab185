package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clipforge/api/pkg/response"
)

// Identity headers stamped by the edge proxy after ForwardAuth. They
// are trusted only in gateway mode; the deployment must keep clients
// from reaching the service directly.
const (
	headerUserID    = "X-User-Id"
	headerUserEmail = "X-User-Email"
	headerUserName  = "X-User-Name"
)

// GatewayAuthMiddleware resolves the caller's identity from proxy
// headers instead of verifying a token locally. A request without a
// user id never made it through the gateway and is rejected.
func GatewayAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(headerUserID)
		if userID == "" {
			return response.Unauthorized(c, "Missing user identity headers")
		}

		c.Locals("userId", userID)
		c.Locals("email", c.Get(headerUserEmail))
		c.Locals("name", c.Get(headerUserName))

		return c.Next()
	}
}
