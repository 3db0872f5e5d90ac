package models

import "time"

// File is the metadata record for one stored object. The content itself
// lives encrypted in the object store under Name; URL is the public
// reference derived at upload time.
type File struct {
	ID        string      `json:"id"`
	OwnerID   PrincipalID `json:"user_id"`
	Name      string      `json:"name"`
	URL       string      `json:"file"`
	Size      int64       `json:"size"`
	CreatedAt time.Time   `json:"uploaded_at"`
	Starred   bool        `json:"is_starred"`
	Private   bool        `json:"is_private"`
}

// FileShare grants one principal read/download access to a file. OwnerID is
// denormalized from the file for auditability. At most one grant may exist
// per (file, grantee) pair.
type FileShare struct {
	ID        string      `json:"id"`
	FileID    string      `json:"file_id"`
	OwnerID   PrincipalID `json:"owner_id"`
	GranteeID PrincipalID `json:"shared_with_id"`
	CreatedAt time.Time   `json:"shared_at"`
}

// ExtensionCount is one bucket of the file-extension histogram.
type ExtensionCount struct {
	Extension string `json:"extension"`
	Count     int64  `json:"count"`
}
