package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/identity"
	"github.com/avcastro/vaultbox/internal/server/models"
	"github.com/avcastro/vaultbox/internal/server/objectstore"
	"github.com/avcastro/vaultbox/internal/server/repositories/repomanager"
)

const (
	minPasswordLength = 6
	maxAvatarBytes    = 5 << 20
)

// avatarExtensions whitelists profile-picture content types.
var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// PrincipalWithPlan is a directory entry joined with the user's plan name.
type PrincipalWithPlan struct {
	*models.Principal
	PlanName string `json:"plan_name"`
	Status   string `json:"subscription_status"`
}

// UserService fronts the identity provider's admin API and keeps the
// provider's user records consistent with locally stored state.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    identity.Provider
	store       objectstore.Store
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, provider identity.Provider,
	store objectstore.Store, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		identity:    provider,
		store:       store,
		log:         log,
	}
}

// List returns the user directory with each principal's plan joined. Users
// without a subscription row show as active free-plan members.
func (s *UserService) List(ctx context.Context) ([]*PrincipalWithPlan, error) {
	principals, err := s.identity.ListPrincipals(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.repomanager.Subscriptions(s.db).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[models.PrincipalID]*models.Subscription, len(subs))
	for _, sub := range subs {
		byUser[sub.UserID] = sub
	}

	result := make([]*PrincipalWithPlan, 0, len(principals))
	for _, p := range principals {
		entry := &PrincipalWithPlan{Principal: p, PlanName: "Free", Status: models.SubscriptionActive}
		if sub, ok := byUser[p.ID]; ok && sub.Plan != nil {
			entry.PlanName = sub.Plan.Name
			entry.Status = sub.Status
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *UserService) Get(ctx context.Context, id models.PrincipalID) (*models.Principal, error) {
	return s.identity.GetPrincipal(ctx, id)
}

// Count returns the size of the user directory.
func (s *UserService) Count(ctx context.Context) (int, error) {
	principals, err := s.identity.ListPrincipals(ctx)
	if err != nil {
		return 0, err
	}
	return len(principals), nil
}

func (s *UserService) ChangePassword(ctx context.Context, id models.PrincipalID, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	return s.identity.UpdatePassword(ctx, id, password)
}

// UploadAvatar stores a profile picture and records its public URL in the
// principal's metadata. If the metadata update fails the stored object is
// removed again.
func (s *UserService) UploadAvatar(ctx context.Context, id models.PrincipalID, contentType string, data []byte) (string, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", common.ErrValidation, contentType)
	}
	if len(data) > maxAvatarBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", common.ErrValidation, maxAvatarBytes)
	}

	name := fmt.Sprintf("profile_%s_%d.%s", id, time.Now().Unix(), ext)
	storedName, err := s.store.Upload(ctx, name, contentType, data)
	if err != nil {
		return "", err
	}

	avatarURL := s.store.PublicURL(storedName)
	if err := s.identity.UpdateMetadata(ctx, id, map[string]any{"avatar": avatarURL}); err != nil {
		if delErr := s.store.Delete(ctx, storedName); delErr != nil {
			s.log.Error(ctx, "compensating delete failed, avatar orphaned",
				"name", storedName, "error", delErr)
		}
		return "", err
	}

	s.log.Info(ctx, "avatar updated", "principal", id, "name", storedName)
	return avatarURL, nil
}

// Delete removes the principal from the identity provider. Local rows keyed
// by the principal id are left behind; the provider is the source of truth
// for existence.
func (s *UserService) Delete(ctx context.Context, id models.PrincipalID) error {
	if err := s.identity.DeletePrincipal(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return err
	}
	s.log.Info(ctx, "principal deleted", "principal", id)
	return nil
}
