package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDuplicateChecker struct {
	existing map[string]bool
	err      error
}

func (s *stubDuplicateChecker) ExistsByIncidentID(_ context.Context, incidentID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.existing[incidentID], nil
}

var testPriorities = []string{"1 - Critical", "2 - High", "3 - Moderate", "4 - Low", "5 - Planning"}

func newTestValidator(checker *stubDuplicateChecker) *RecordValidator {
	if checker == nil {
		checker = &stubDuplicateChecker{}
	}
	return NewRecordValidator(checker, NewTemporalParser(time.UTC), testPriorities)
}

func TestValidate_MissingKey(t *testing.T) {
	t.Parallel()
	v := newTestValidator(nil)

	res, err := v.Validate(context.Background(), NormalizeRecord(RawRecord{"priority": "2 - High"}), false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonMissingKey, res.Reason)
}

func TestValidate_DuplicateKeyOnlyInInsertOnlyMode(t *testing.T) {
	t.Parallel()
	v := newTestValidator(&stubDuplicateChecker{existing: map[string]bool{"INC001": true}})
	rec := NormalizeRecord(RawRecord{"incident_id": "INC001"})

	res, err := v.Validate(context.Background(), rec, true)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonDuplicateKey, res.Reason)

	// Merge mode skips the lookup entirely.
	res, err = v.Validate(context.Background(), rec, false)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestValidate_MergeModeNeverTouchesStorage(t *testing.T) {
	t.Parallel()
	v := newTestValidator(&stubDuplicateChecker{err: errors.New("storage down")})
	rec := NormalizeRecord(RawRecord{"incident_id": "INC001"})

	res, err := v.Validate(context.Background(), rec, false)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestValidate_InvalidEnum(t *testing.T) {
	t.Parallel()
	v := newTestValidator(nil)

	res, err := v.Validate(context.Background(), NormalizeRecord(RawRecord{
		"incident_id": "INC001",
		"priority":    "BOGUS",
	}), false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonInvalidEnum, res.Reason)
}

func TestValidate_AbsentPriorityIsAccepted(t *testing.T) {
	t.Parallel()
	v := newTestValidator(nil)

	res, err := v.Validate(context.Background(), NormalizeRecord(RawRecord{
		"incident_id": "INC001",
		"priority":    "  ",
	}), false)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestValidate_InvalidDate(t *testing.T) {
	t.Parallel()
	v := newTestValidator(nil)

	res, err := v.Validate(context.Background(), NormalizeRecord(RawRecord{
		"incident_id": "INC001",
		"opened_at":   "not a date",
	}), false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonInvalidDate, res.Reason)
}

func TestValidate_FirstFailureWins(t *testing.T) {
	t.Parallel()
	v := newTestValidator(nil)

	res, err := v.Validate(context.Background(), NormalizeRecord(RawRecord{
		"priority":  "BOGUS",
		"opened_at": "not a date",
	}), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonMissingKey, res.Reason)
}
