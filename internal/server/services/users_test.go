package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/server/models"
)

type userFixture struct {
	svc      *UserService
	provider *fakeProvider
	store    *fakeStore
	subs     *fakeSubscriptionsRepo
}

func newUserFixture(principals ...*models.Principal) *userFixture {
	f := &userFixture{
		provider: newFakeProvider(principals...),
		store:    newFakeStore(),
		subs:     newFakeSubscriptionsRepo(),
	}
	rm := &fakeRepoManager{subscriptions: f.subs}
	f.svc = NewUserService(nil, rm, f.provider, f.store, nopLogger{})
	return f
}

func TestList_JoinsPlans(t *testing.T) {
	fx := newUserFixture(
		&models.Principal{ID: "p1", Email: "a@example.com"},
		&models.Principal{ID: "p2", Email: "b@example.com"},
	)
	fx.subs.listAllOut = []*models.Subscription{
		{
			UserID: "p1",
			Status: models.SubscriptionActive,
			Plan:   &models.SubscriptionPlan{Name: "Pro", Tier: models.TierPro},
		},
	}

	got, err := fx.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Pro", got[0].PlanName)
	// No subscription row: defaults to an active free membership.
	require.Equal(t, "Free", got[1].PlanName)
	require.Equal(t, models.SubscriptionActive, got[1].Status)
}

func TestCount(t *testing.T) {
	fx := newUserFixture(
		&models.Principal{ID: "p1"},
		&models.Principal{ID: "p2"},
		&models.Principal{ID: "p3"},
	)

	n, err := fx.svc.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestChangePassword(t *testing.T) {
	fx := newUserFixture(&models.Principal{ID: "p1"})

	err := fx.svc.ChangePassword(context.Background(), "p1", "short")
	require.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, fx.svc.ChangePassword(context.Background(), "p1", "longenough"))
	require.Equal(t, "longenough", fx.provider.passwords["p1"])
}

func TestUploadAvatar_Success(t *testing.T) {
	fx := newUserFixture(&models.Principal{ID: "p1"})

	url, err := fx.svc.UploadAvatar(context.Background(), "p1", "image/png", []byte("pngdata"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://store/uploads/profile_p1_"))
	require.True(t, strings.HasSuffix(url, ".png"))
	require.Equal(t, map[string]any{"avatar": url}, fx.provider.metadata["p1"])
}

func TestUploadAvatar_RejectsUnsupportedType(t *testing.T) {
	fx := newUserFixture(&models.Principal{ID: "p1"})

	_, err := fx.svc.UploadAvatar(context.Background(), "p1", "application/pdf", []byte("x"))
	require.ErrorIs(t, err, common.ErrValidation)
	require.Empty(t, fx.store.objects)
}

func TestUploadAvatar_RejectsOversize(t *testing.T) {
	fx := newUserFixture(&models.Principal{ID: "p1"})

	_, err := fx.svc.UploadAvatar(context.Background(), "p1", "image/jpeg", bytes.Repeat([]byte("a"), maxAvatarBytes+1))
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUploadAvatar_MetadataFailureCompensates(t *testing.T) {
	fx := newUserFixture(&models.Principal{ID: "p1"})
	fx.provider.metadataErr = errBoom{}

	_, err := fx.svc.UploadAvatar(context.Background(), "p1", "image/png", []byte("pngdata"))
	require.Error(t, err)
	require.Len(t, fx.store.deleted, 1, "stored avatar must be removed when the metadata update fails")
	require.Empty(t, fx.store.objects)
}

func TestDeleteUser(t *testing.T) {
	fx := newUserFixture(&models.Principal{ID: "p1"})

	require.NoError(t, fx.svc.Delete(context.Background(), "p1"))
	require.Equal(t, []models.PrincipalID{"p1"}, fx.provider.deleted)

	fx.provider.deleteErr = common.ErrNotFound
	require.ErrorIs(t, fx.svc.Delete(context.Background(), "ghost"), common.ErrNotFound)
}
