package contract

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrStore           = errors.New("record store failed")
	ErrNotFound        = errors.New("no interaction on record")
	ErrResolver        = errors.New("intent resolver failed")
	ErrSchemaViolation = errors.New("resolver response violates schema")
)
