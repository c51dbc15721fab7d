package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	// MaxQueryLen caps the raw search query. Longer inputs are never valid
	// channel references.
	MaxQueryLen = 256
)

// ErrorResponse returns the API error shape: a flat error code with an
// optional human-readable detail.
func ErrorResponse(c fiber.Ctx, status int, code, detail string) error {
	body := fiber.Map{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	return c.Status(status).JSON(body)
}

// ValidateQuery normalizes and checks a raw analysis query. Returns the
// trimmed query and an empty string, or "" and a problem description.
func ValidateQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "q is required"
	}
	if len(q) > MaxQueryLen {
		return "", "q must be at most 256 characters"
	}
	return q, ""
}

// ValidateStatsRange checks the optional range parameter on the stats
// endpoint. Only "all" and "30days" are recognized.
func ValidateStatsRange(r string) (string, string) {
	r = strings.TrimSpace(strings.ToLower(r))
	if r == "" {
		return "all", ""
	}
	if r != "all" && r != "30days" {
		return "", "range must be 'all' or '30days'"
	}
	return r, ""
}
