// Package services contains server-side business logic. This file implements
// FileService: encrypted upload/download, sharing grants, and per-owner
// storage aggregates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/cryptox"
	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/identity"
	"github.com/avcastro/vaultbox/internal/server/models"
	"github.com/avcastro/vaultbox/internal/server/objectstore"
	"github.com/avcastro/vaultbox/internal/server/repositories/files"
	"github.com/avcastro/vaultbox/internal/server/repositories/repomanager"
)

// UploadInput is one file in an upload batch.
type UploadInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadFailure records why one file of a batch was not stored.
type UploadFailure struct {
	Name string
	Err  error
}

// FileService owns the file lifecycle: contents are encrypted with the
// process codec before they reach the object store, and only metadata is
// kept relationally.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	codec       *cryptox.Codec
	identity    identity.Provider
	log         logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store,
	codec *cryptox.Codec, provider identity.Provider, log logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		codec:       codec,
		identity:    provider,
		log:         log,
	}
}

// Upload stores a batch of files for owner. Each file is handled
// independently: encrypt, upload, insert metadata. A metadata failure after
// a successful upload removes the stored object again so no orphan remains.
// Partial success is success; failures come back per file.
func (s *FileService) Upload(ctx context.Context, owner models.PrincipalID, inputs []*UploadInput) ([]*models.File, []*UploadFailure) {
	repo := s.repomanager.Files(s.db)

	var created []*models.File
	var failed []*UploadFailure

	for _, in := range inputs {
		file, err := s.uploadOne(ctx, repo, owner, in)
		if err != nil {
			s.log.Warn(ctx, "file upload failed", "name", in.Name, "error", err)
			failed = append(failed, &UploadFailure{Name: in.Name, Err: err})
			continue
		}
		created = append(created, file)
	}
	return created, failed
}

func (s *FileService) uploadOne(ctx context.Context, repo files.Repository,
	owner models.PrincipalID, in *UploadInput) (*models.File, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	}

	sealed, err := s.codec.Encrypt(in.Data)
	if err != nil {
		return nil, fmt.Errorf("encrypting %q: %w", in.Name, err)
	}

	storedName, err := s.store.Upload(ctx, in.Name, in.ContentType, sealed)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		ID:      uuid.NewString(),
		OwnerID: owner,
		Name:    storedName,
		URL:     s.store.PublicURL(storedName),
		Size:    int64(len(in.Data)),
	}
	if err := repo.Create(ctx, file); err != nil {
		// The object made it to the store but has no metadata row; remove
		// it again so the two stay consistent.
		if delErr := s.store.Delete(ctx, storedName); delErr != nil {
			s.log.Error(ctx, "compensating delete failed, object orphaned",
				"name", storedName, "error", delErr)
		}
		return nil, fmt.Errorf("error creating file record: %w", err)
	}

	s.log.Info(ctx, "file uploaded", "name", storedName, "owner", owner, "size", file.Size)
	return file, nil
}

// Download returns the decrypted contents and display name of a file.
// Owners, grantees, and anyone on a non-private file may download;
// a private file denies everyone else with ErrForbidden.
func (s *FileService) Download(ctx context.Context, fileID string, principal models.PrincipalID) (string, []byte, error) {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return "", nil, err
	}

	allowed := file.OwnerID == principal || !file.Private
	if !allowed {
		grants, err := s.repomanager.Shares(s.db).ListByFile(ctx, fileID)
		if err != nil {
			return "", nil, err
		}
		for _, g := range grants {
			if g.GranteeID == principal {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return "", nil, common.ErrForbidden
	}

	sealed, err := s.store.Download(ctx, file.Name)
	if err != nil {
		return "", nil, err
	}
	plaintext, err := s.codec.Decrypt(sealed)
	if err != nil {
		return "", nil, err
	}
	return file.Name, plaintext, nil
}

// Delete removes the metadata row; share grants go with it via the schema.
// TODO: also remove the stored object; needs a sweep that tolerates the row
// already being gone.
func (s *FileService) Delete(ctx context.Context, fileID string, owner models.PrincipalID) error {
	repo := s.repomanager.Files(s.db)
	file, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != owner {
		return common.ErrNotOwner
	}
	return repo.Delete(ctx, fileID)
}

// Share grants granteeEmail read access to the file. Only the owner may
// share; a duplicate grant surfaces as ErrAlreadyShared.
func (s *FileService) Share(ctx context.Context, fileID string, owner models.PrincipalID, granteeEmail string) (*models.FileShare, error) {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != owner {
		return nil, common.ErrNotOwner
	}

	grantee, err := s.identity.FindByEmail(ctx, granteeEmail)
	if err != nil {
		return nil, err
	}

	share := &models.FileShare{
		ID:        uuid.NewString(),
		FileID:    fileID,
		OwnerID:   owner,
		GranteeID: grantee.ID,
	}
	if err := s.repomanager.Shares(s.db).Create(ctx, share); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "file shared", "file_id", fileID, "grantee", grantee.ID)
	return share, nil
}

// Unshare revokes the grant for granteeEmail. ErrShareNotFound when no
// grant exists.
func (s *FileService) Unshare(ctx context.Context, fileID string, owner models.PrincipalID, granteeEmail string) error {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != owner {
		return common.ErrNotOwner
	}

	grantee, err := s.identity.FindByEmail(ctx, granteeEmail)
	if err != nil {
		if errors.Is(err, common.ErrGranteeNotFound) {
			return common.ErrShareNotFound
		}
		return err
	}
	return s.repomanager.Shares(s.db).Delete(ctx, fileID, grantee.ID)
}

// ListAccessible returns every file the principal owns or was granted,
// each at most once.
func (s *FileService) ListAccessible(ctx context.Context, principal models.PrincipalID) ([]*models.File, error) {
	return s.repomanager.Files(s.db).ListAccessible(ctx, principal)
}

// SetPrivacy flips the private flag; owner only.
func (s *FileService) SetPrivacy(ctx context.Context, fileID string, owner models.PrincipalID, private bool) error {
	repo := s.repomanager.Files(s.db)
	file, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != owner {
		return common.ErrNotOwner
	}
	return repo.SetPrivacy(ctx, fileID, private)
}

// ToggleStar flips the starred flag and returns the new value. There is no
// ownership check; any authenticated principal may toggle any file.
func (s *FileService) ToggleStar(ctx context.Context, fileID string) (bool, error) {
	return s.repomanager.Files(s.db).ToggleStar(ctx, fileID)
}

// TotalSize returns the sum of plaintext sizes of the owner's files.
func (s *FileService) TotalSize(ctx context.Context, owner models.PrincipalID) (int64, error) {
	return s.repomanager.Files(s.db).TotalSize(ctx, owner)
}

// ExtensionHistogram returns the owner's top file extensions by count.
func (s *FileService) ExtensionHistogram(ctx context.Context, owner models.PrincipalID, limit int) ([]*models.ExtensionCount, error) {
	return s.repomanager.Files(s.db).ExtensionHistogram(ctx, owner, limit)
}
