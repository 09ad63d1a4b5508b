package domain

import "errors"

var (
	ErrValidation        = errors.New("invalid submission request")
	ErrSubmissionMissing = errors.New("submission not found")
)
