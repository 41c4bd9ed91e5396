package services

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/deskflow-io/deskflow/pkg/constants"
	"github.com/deskflow-io/deskflow/pkg/serrors"
)

// ImportRequestDTO is the caller-facing shape of an import request, as
// submitted by the CLI or an upload-handling service.
type ImportRequestDTO struct {
	FilePath string `validate:"required"`
	SourceID string `validate:"required"`
	TenantID string `validate:"required,uuid"`

	InsertOnly bool
	DryRun     bool
}

func (d *ImportRequestDTO) Normalize() {
	d.FilePath = strings.TrimSpace(d.FilePath)
	d.SourceID = strings.TrimSpace(d.SourceID)
	d.TenantID = strings.TrimSpace(d.TenantID)
}

func (d *ImportRequestDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.FromValidatorErrors(errs.(validator.ValidationErrors)), false
}
