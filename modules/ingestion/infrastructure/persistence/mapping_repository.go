package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/mappingrule"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence/models"
	"github.com/deskflow-io/deskflow/pkg/composables"
)

var (
	ErrMappingNotFound = errors.New("mapping rule not found")
)

const (
	organizationMappingFindQuery = `
		SELECT id, tenant_id, source_id, organization, project_id, created_at, updated_at
		FROM organization_mappings`

	userMappingFindQuery = `
		SELECT id, tenant_id, source_id, assignee, user_email, created_at, updated_at
		FROM user_mappings`
)

type PgMappingRepository struct{}

func NewMappingRepository() mappingrule.Repository {
	return &PgMappingRepository{}
}

func (r *PgMappingRepository) FindOrganizationMapping(ctx context.Context, sourceID, organization string) (*mappingrule.OrganizationMapping, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	// Exact match: lookups are intentionally case- and whitespace-sensitive.
	var row models.OrganizationMapping
	if err := tx.QueryRow(
		ctx,
		organizationMappingFindQuery+" WHERE source_id = $1 AND organization = $2",
		sourceID,
		organization,
	).Scan(
		&row.ID,
		&row.TenantID,
		&row.SourceID,
		&row.Organization,
		&row.ProjectID,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}
	return toDomainOrganizationMapping(&row), nil
}

func (r *PgMappingRepository) FindUserMapping(ctx context.Context, sourceID, assignee string) (*mappingrule.UserMapping, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var row models.UserMapping
	if err := tx.QueryRow(
		ctx,
		userMappingFindQuery+" WHERE source_id = $1 AND assignee = $2",
		sourceID,
		assignee,
	).Scan(
		&row.ID,
		&row.TenantID,
		&row.SourceID,
		&row.Assignee,
		&row.UserEmail,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}
	return toDomainUserMapping(&row), nil
}

func (r *PgMappingRepository) ListOrganizationMappings(ctx context.Context, sourceID string) ([]*mappingrule.OrganizationMapping, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, organizationMappingFindQuery+" WHERE source_id = $1 ORDER BY organization", sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []*mappingrule.OrganizationMapping
	for rows.Next() {
		var row models.OrganizationMapping
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.SourceID,
			&row.Organization,
			&row.ProjectID,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		mappings = append(mappings, toDomainOrganizationMapping(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *PgMappingRepository) ListUserMappings(ctx context.Context, sourceID string) ([]*mappingrule.UserMapping, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, userMappingFindQuery+" WHERE source_id = $1 ORDER BY assignee", sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []*mappingrule.UserMapping
	for rows.Next() {
		var row models.UserMapping
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.SourceID,
			&row.Assignee,
			&row.UserEmail,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		mappings = append(mappings, toDomainUserMapping(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mappings, nil
}
