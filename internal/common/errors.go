// Package common defines shared constants and sentinel errors used across
// the vaultbox server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	// Ownership / access errors.
	ErrNotOwner  = errors.New("not the file owner")
	ErrForbidden = errors.New("forbidden")

	// Sharing ledger errors.
	ErrAlreadyShared   = errors.New("file already shared with this user")
	ErrShareNotFound   = errors.New("share not found")
	ErrGranteeNotFound = errors.New("no user with this email")

	// Codec errors (tampered or foreign ciphertext).
	ErrCiphertextInvalid = errors.New("ciphertext invalid")

	// Object-store errors.
	ErrNameConflict = errors.New("object name conflict")

	// External collaborator (identity provider, payment processor, store)
	// unreachable or returned a server-side failure. Retryable by the caller.
	ErrExternal = errors.New("external service error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
