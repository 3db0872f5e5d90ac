package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/server/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "service-key")
}

func TestListPrincipals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		require.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"id": "p1", "email": "a@example.com"},
				{"id": "p2", "email": "b@example.com"},
			},
		})
	})

	got, err := c.ListPrincipals(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, models.PrincipalID("p1"), got[0].ID)
	require.Equal(t, "b@example.com", got[1].Email)
}

func TestFindByEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"id": "p1", "email": "alice@example.com"},
			},
		})
	})

	p, err := c.FindByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	require.Equal(t, models.PrincipalID("p1"), p.ID)

	_, err = c.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, common.ErrGranteeNotFound)
}

func TestUpdatePassword(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/admin/users/p1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.UpdatePassword(context.Background(), "p1", "s3cret"))
	require.Equal(t, "s3cret", gotBody["password"])
}

func TestGetPrincipal_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetPrincipal(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDo_ServerErrorIsExternal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListPrincipals(context.Background())
	require.ErrorIs(t, err, common.ErrExternal)
}

func TestDeletePrincipal(t *testing.T) {
	var deleted string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.DeletePrincipal(context.Background(), "p9"))
	require.Equal(t, "/admin/users/p9", deleted)
}
