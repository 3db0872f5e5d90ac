package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/server/models"
)

func newContactFixture() (*ContactService, *fakeContactsRepo) {
	repo := &fakeContactsRepo{}
	rm := &fakeRepoManager{contacts: repo}
	return NewContactService(nil, rm, nopLogger{}), repo
}

func TestSubmit(t *testing.T) {
	svc, repo := newContactFixture()

	c := &models.Contact{Name: "Alice", Email: "alice@example.com", Subject: "Billing", Message: "Charged twice"}
	require.NoError(t, svc.Submit(context.Background(), c))
	require.Equal(t, models.ContactStatusPending, c.Status)
	require.Len(t, repo.created, 1)
}

func TestSubmit_MissingFields(t *testing.T) {
	svc, repo := newContactFixture()

	err := svc.Submit(context.Background(), &models.Contact{Name: "Alice"})
	require.ErrorIs(t, err, common.ErrValidation)
	require.Empty(t, repo.created)
}

func TestUpdateStatus_EmptyRejected(t *testing.T) {
	svc, _ := newContactFixture()

	err := svc.UpdateStatus(context.Background(), 1, "")
	require.ErrorIs(t, err, common.ErrValidation)
}
