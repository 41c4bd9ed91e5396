package uploadsession

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// UploadSession tracks one batch run. It is the only externally visible
// progress signal for a long-running ingestion.
type UploadSession struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	SourceID      string
	Filename      string
	TotalRows     int
	ProcessedRows int
	Status        Status
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

type FindParams struct {
	SourceID string
	Status   Status
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, session *UploadSession) error
	Update(ctx context.Context, session *UploadSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*UploadSession, error)
	List(ctx context.Context, params *FindParams) ([]*UploadSession, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
