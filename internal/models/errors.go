package models

import "errors"

// Error constants for portal operations
var (
	ErrWizardNotFound   = errors.New("registration wizard not found or expired")
	ErrStepIncomplete   = errors.New("current step has incomplete required fields")
	ErrDraftNotFound    = errors.New("notice draft not found")
	ErrDuplicateRequest = errors.New("exemption request already exists for this notice")
	ErrSessionExpired   = errors.New("session expired")
)
