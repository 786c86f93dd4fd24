package services

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidWindow          = errors.New("lesson window must be in the future")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAlreadyMember          = errors.New("already a member of this lesson")
	ErrInvitationExpired      = errors.New("invitation expired")
	ErrGroupFull              = errors.New("group is full")
	ErrNotFound               = errors.New("not found")
	ErrTeacherNotFound        = errors.New("teacher not found")
)
