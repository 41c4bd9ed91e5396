package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/uploadsession"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

// SessionService owns the UploadSession lifecycle around a batch run.
type SessionService struct {
	repo      uploadsession.Repository
	publisher eventbus.EventBus
}

func NewSessionService(repo uploadsession.Repository, publisher eventbus.EventBus) *SessionService {
	return &SessionService{repo: repo, publisher: publisher}
}

// Start records a new session in the processing state and returns it.
func (s *SessionService) Start(ctx context.Context, sourceID, filename string, totalRows int) (*uploadsession.UploadSession, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	session := &uploadsession.UploadSession{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SourceID:  sourceID,
		Filename:  filename,
		TotalRows: totalRows,
		Status:    uploadsession.StatusProcessing,
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Progress advances the processed-row counter. Called mid-batch; each call
// is its own transaction so progress is visible to concurrent readers.
func (s *SessionService) Progress(ctx context.Context, id uuid.UUID, processedRows int) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		session, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		session.ProcessedRows = processedRows
		return s.repo.Update(txCtx, session)
	})
}

// Complete marks the session finished and publishes the completion event.
func (s *SessionService) Complete(ctx context.Context, id uuid.UUID, result BatchResult) error {
	err := s.finish(ctx, id, uploadsession.StatusCompleted, result.Inserted+result.Updated+result.Failed, "")
	if err != nil {
		return err
	}
	s.publisher.Publish(SessionCompletedEvent{SessionID: id, Result: result})
	return nil
}

// Fail marks the session failed with the given error text.
func (s *SessionService) Fail(ctx context.Context, id uuid.UUID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return s.finish(ctx, id, uploadsession.StatusFailed, -1, message)
}

func (s *SessionService) finish(ctx context.Context, id uuid.UUID, status uploadsession.Status, processedRows int, message string) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		session, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		session.Status = status
		if processedRows >= 0 {
			session.ProcessedRows = processedRows
		}
		session.ErrorMessage = message
		now := time.Now()
		session.CompletedAt = &now
		return s.repo.Update(txCtx, session)
	})
}

func (s *SessionService) GetByID(ctx context.Context, id uuid.UUID) (*uploadsession.UploadSession, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (*uploadsession.UploadSession, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *SessionService) List(ctx context.Context, params *uploadsession.FindParams) ([]*uploadsession.UploadSession, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]*uploadsession.UploadSession, error) {
		return s.repo.List(txCtx, params)
	})
}
