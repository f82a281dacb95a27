package models

import "github.com/pkg/errors"

// Engine error kinds. Handlers wrap these with context via errors.Wrapf;
// controllers match with errors.Is to pick the HTTP status.
var (
	ErrInvalidTransition   = errors.New("action is not legal from the current status")
	ErrSectionNotEditable  = errors.New("section is not editable at the current stage")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateActiveForm = errors.New("asset already has an active form")
	ErrFormNotEligible     = errors.New("form is not eligible for packaging")
	ErrNotFound            = errors.New("record not found")
)
