package services

import (
	"context"
	"errors"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/mappingrule"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence"
)

// MappingResolver looks external actor identifiers up against configured
// mapping rules. A miss is a normal outcome: the record is stored unmapped
// for later manual reconciliation. Lookups are exact; casing mismatches
// are a configuration concern, not a pipeline bug.
type MappingResolver struct {
	mappings mappingrule.Repository
}

func NewMappingResolver(mappings mappingrule.Repository) *MappingResolver {
	return &MappingResolver{mappings: mappings}
}

// ResolveProject resolves an organization value to an internal project id.
// The second return is false when no rule matches.
func (r *MappingResolver) ResolveProject(ctx context.Context, sourceID string, organization Value) (*mappingrule.OrganizationMapping, bool, error) {
	if !organization.IsPresent() {
		return nil, false, nil
	}
	m, err := r.mappings.FindOrganizationMapping(ctx, sourceID, organization.String())
	if err != nil {
		if errors.Is(err, persistence.ErrMappingNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return m, true, nil
}

// ResolveUser resolves an assignee value to an internal user email.
func (r *MappingResolver) ResolveUser(ctx context.Context, sourceID string, assignee Value) (string, bool, error) {
	if !assignee.IsPresent() {
		return "", false, nil
	}
	m, err := r.mappings.FindUserMapping(ctx, sourceID, assignee.String())
	if err != nil {
		if errors.Is(err, persistence.ErrMappingNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.UserEmail, true, nil
}
