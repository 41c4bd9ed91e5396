package services

import (
	"context"
)

// ReasonCode is the machine-readable reason attached to a rejected record.
type ReasonCode string

const (
	ReasonMissingKey   ReasonCode = "MissingKey"
	ReasonDuplicateKey ReasonCode = "DuplicateKey"
	ReasonInvalidEnum  ReasonCode = "InvalidEnum"
	ReasonInvalidDate  ReasonCode = "InvalidDate"
	// ReasonStorage covers persistence failures the validator did not
	// anticipate; the detail carries the underlying message.
	ReasonStorage ReasonCode = "StorageError"
)

type ValidationResult struct {
	OK     bool
	Reason ReasonCode
	Detail string
}

func valid() ValidationResult {
	return ValidationResult{OK: true}
}

func invalid(reason ReasonCode, detail string) ValidationResult {
	return ValidationResult{Reason: reason, Detail: detail}
}

// DuplicateChecker is the slice of ticket storage the validator needs for
// insert-only mode.
type DuplicateChecker interface {
	ExistsByIncidentID(ctx context.Context, incidentID string) (bool, error)
}

// RecordValidator enforces required-field and enumerated-value constraints
// on a normalized record. It never mutates persisted state.
type RecordValidator struct {
	tickets    DuplicateChecker
	parser     *TemporalParser
	priorities map[string]struct{}
}

func NewRecordValidator(tickets DuplicateChecker, parser *TemporalParser, priorityCodes []string) *RecordValidator {
	priorities := make(map[string]struct{}, len(priorityCodes))
	for _, code := range priorityCodes {
		priorities[code] = struct{}{}
	}
	return &RecordValidator{
		tickets:    tickets,
		parser:     parser,
		priorities: priorities,
	}
}

// Validate applies the rules in order; the first failure wins.
//
// The duplicate check only runs in insert-only mode. Merge mode, the
// production default, treats an existing business key as an update and
// skips the storage lookup entirely.
func (v *RecordValidator) Validate(ctx context.Context, rec NormalizedRecord, insertOnly bool) (ValidationResult, error) {
	key := rec.Get(FieldIncidentID)
	if !key.IsPresent() {
		return invalid(ReasonMissingKey, "business key is required"), nil
	}

	if insertOnly {
		exists, err := v.tickets.ExistsByIncidentID(ctx, key.String())
		if err != nil {
			return ValidationResult{}, err
		}
		if exists {
			return invalid(ReasonDuplicateKey, "business key already exists"), nil
		}
	}

	if priority := rec.Get(FieldPriority); priority.IsPresent() {
		if _, ok := v.priorities[priority.String()]; !ok {
			return invalid(ReasonInvalidEnum, "unknown priority: "+priority.String()), nil
		}
	}

	if opened := rec.Get(FieldOpenedAt); opened.IsPresent() {
		if _, ok := v.parser.ParseTimestamp(opened); !ok {
			return invalid(ReasonInvalidDate, "unparseable opened date: "+opened.String()), nil
		}
	}

	return valid(), nil
}
