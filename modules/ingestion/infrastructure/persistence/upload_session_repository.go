package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/uploadsession"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence/models"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/repo"
)

var (
	ErrUploadSessionNotFound = errors.New("upload session not found")
)

const (
	uploadSessionFindQuery = `
		SELECT id, tenant_id, source_id, filename, total_rows, processed_rows,
		       status, error_message, created_at, updated_at, completed_at
		FROM upload_sessions`

	uploadSessionInsertQuery = `
		INSERT INTO upload_sessions (
			id, tenant_id, source_id, filename, total_rows, processed_rows,
			status, error_message, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	uploadSessionUpdateQuery = `
		UPDATE upload_sessions
		SET total_rows = $2,
		    processed_rows = $3,
		    status = $4,
		    error_message = $5,
		    completed_at = $6,
		    updated_at = NOW()
		WHERE id = $1`
)

type PgUploadSessionRepository struct{}

func NewUploadSessionRepository() uploadsession.Repository {
	return &PgUploadSessionRepository{}
}

func (r *PgUploadSessionRepository) Create(ctx context.Context, session *uploadsession.UploadSession) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row := toDBUploadSession(session)
	now := time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	_, err = tx.Exec(
		ctx,
		uploadSessionInsertQuery,
		row.ID,
		row.TenantID,
		row.SourceID,
		row.Filename,
		row.TotalRows,
		row.ProcessedRows,
		row.Status,
		row.ErrorMessage,
		row.CreatedAt,
		row.UpdatedAt,
	)
	return err
}

func (r *PgUploadSessionRepository) Update(ctx context.Context, session *uploadsession.UploadSession) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row := toDBUploadSession(session)
	tag, err := tx.Exec(
		ctx,
		uploadSessionUpdateQuery,
		row.ID,
		row.TotalRows,
		row.ProcessedRows,
		row.Status,
		row.ErrorMessage,
		row.CompletedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUploadSessionNotFound
	}
	return nil
}

func (r *PgUploadSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*uploadsession.UploadSession, error) {
	sessions, err := r.querySessions(ctx, uploadSessionFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrUploadSessionNotFound
	}
	return sessions[0], nil
}

func (r *PgUploadSessionRepository) List(ctx context.Context, params *uploadsession.FindParams) ([]*uploadsession.UploadSession, error) {
	if params == nil {
		params = &uploadsession.FindParams{}
	}
	where, args := buildUploadSessionFilters(params)
	query := uploadSessionFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at DESC"
	if clause := repo.FormatLimitOffset(params.Limit, params.Offset); clause != "" {
		query += " " + clause
	}
	return r.querySessions(ctx, query, args...)
}

func (r *PgUploadSessionRepository) Count(ctx context.Context, params *uploadsession.FindParams) (int64, error) {
	if params == nil {
		params = &uploadsession.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildUploadSessionFilters(params)
	var count int64
	if err := tx.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM upload_sessions WHERE "+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildUploadSessionFilters(params *uploadsession.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params.SourceID != "" {
		args = append(args, params.SourceID)
		where = append(where, fmt.Sprintf("source_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	return where, args
}

func (r *PgUploadSessionRepository) querySessions(ctx context.Context, query string, args ...interface{}) ([]*uploadsession.UploadSession, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*uploadsession.UploadSession
	for rows.Next() {
		row, err := scanUploadSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, toDomainUploadSession(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanUploadSession(rows pgx.Rows) (*models.UploadSession, error) {
	var row models.UploadSession
	if err := rows.Scan(
		&row.ID,
		&row.TenantID,
		&row.SourceID,
		&row.Filename,
		&row.TotalRows,
		&row.ProcessedRows,
		&row.Status,
		&row.ErrorMessage,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &row, nil
}
