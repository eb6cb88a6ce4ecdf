package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project groups the datasets a user visualizes together.
type Project struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ChartType   ChartType `json:"chartType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectInput represents input for creating a project
type ProjectInput struct {
	Name        string    `json:"name" validate:"notblank,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	ChartType   ChartType `json:"chartType" validate:"required,oneof=bar line pie scatter area table"`
}

// ProjectUpdateInput represents input for updating a project
type ProjectUpdateInput struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	ChartType   *ChartType `json:"chartType,omitempty" validate:"omitempty,oneof=bar line pie scatter area table"`
}

// ProjectFilter represents filter options for querying projects
type ProjectFilter struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ProjectList represents a paginated list of projects
type ProjectList struct {
	Projects   []Project `json:"projects"`
	TotalCount int64     `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
}

// GenerateSlug generates a URL-safe slug from a name
func GenerateSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
