package mappingrule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrganizationMapping resolves a source-system organization string to an
// internal project identifier. Owned by administrative configuration flows;
// the ingestion pipeline only reads it.
type OrganizationMapping struct {
	ID           uint
	TenantID     uuid.UUID
	SourceID     string
	Organization string
	ProjectID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserMapping resolves a source-system assignee string to an internal user
// email.
type UserMapping struct {
	ID        uint
	TenantID  uuid.UUID
	SourceID  string
	Assignee  string
	UserEmail string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository lookups are exact matches: case- and whitespace-sensitive on
// the normalized value, scoped by source system. A miss is reported through
// the not-found sentinel of the implementation, never invented.
type Repository interface {
	FindOrganizationMapping(ctx context.Context, sourceID, organization string) (*OrganizationMapping, error)
	FindUserMapping(ctx context.Context, sourceID, assignee string) (*UserMapping, error)
	ListOrganizationMappings(ctx context.Context, sourceID string) ([]*OrganizationMapping, error)
	ListUserMappings(ctx context.Context, sourceID string) ([]*UserMapping, error)
}
