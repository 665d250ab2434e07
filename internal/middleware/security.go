package middleware

import (
	"github.com/labstack/echo/v4"
)

// contentSecurityPolicy only allows same-origin resources. The landing page
// carries its styles inline.
const contentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// SecurityHeaders returns middleware that sets security-related HTTP headers
// on every response.
//
// TLS is terminated by the reverse proxy in front of the server; HSTS is
// still set so browsers stick to HTTPS for subsequent requests.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set(echo.HeaderContentSecurityPolicy, contentSecurityPolicy)
			h.Set(echo.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains")
			h.Set(echo.HeaderXContentTypeOptions, "nosniff")

			// Redundant with frame-ancestors but some older browsers only
			// support this header.
			h.Set(echo.HeaderXFrameOptions, "DENY")

			h.Set(echo.HeaderReferrerPolicy, "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			return next(c)
		}
	}
}
