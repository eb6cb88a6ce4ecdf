// Package pagination parses limit/offset paging parameters.
package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

const (
	// DefaultLimit is used when the request names no limit
	DefaultLimit = 20
	// MaxLimit caps the page size
	MaxLimit = 100
)

// Params contains pagination parameters
type Params struct {
	Limit  int
	Offset int
}

// FromQuery reads limit and offset query parameters. Limits above MaxLimit
// are clamped; malformed or negative values are rejected.
func FromQuery(c *fiber.Ctx) (Params, error) {
	p := Params{Limit: DefaultLimit}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, apperrors.BadRequest("limit must be a positive integer").WithDetail("param", "limit")
		}
		p.Limit = min(limit, MaxLimit)
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return p, apperrors.BadRequest("offset must be a non-negative integer").WithDetail("param", "offset")
		}
		p.Offset = offset
	}

	return p, nil
}

// HasMore reports whether rows remain after the page that returned n items
func (p Params) HasMore(n int, total int64) bool {
	return int64(p.Offset+n) < total
}
