// Package models defines server-side data models persisted in the database
// plus views of identity-provider records.
package models

import "time"

// PrincipalID is the opaque identifier issued by the external identity
// provider. A dedicated type keeps it from being mixed up with file ids or
// other bare strings threaded through signatures.
type PrincipalID string

func (p PrincipalID) String() string { return string(p) }

// Principal is the read-side view of an identity-provider user, as returned
// by the admin listing. Only the fields the server consumes are modeled.
type Principal struct {
	ID        PrincipalID    `json:"id"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Role      string         `json:"role,omitempty"`
	Metadata  map[string]any `json:"user_metadata,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	LastLogin *time.Time     `json:"last_sign_in_at,omitempty"`
}
