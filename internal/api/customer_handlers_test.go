package api

import (
	"net/http"
	"testing"

	"github.com/openshelf/openshelf-server/internal/domain"
	"github.com/openshelf/openshelf-server/internal/http/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerEndpoints_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/customer/"},
		{http.MethodGet, "/api/customer/cust-x"},
		{http.MethodPut, "/api/customer/cust-x"},
		{http.MethodDelete, "/api/customer/cust-x"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := ts.do(p.method, p.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCustomerListAndGet(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.register("alice@example.com", "Alice")
	ts.register("bob@example.com", "Bob")

	w := ts.do(http.MethodGet, "/api/customer/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	customers := decode[[]domain.Customer](t, w)
	require.Len(t, customers, 2)
	// Password hashes never leave the server.
	assert.NotContains(t, w.Body.String(), "argon2id")

	w = ts.do(http.MethodGet, "/api/customer/"+customers[0].ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, customers[0].Email, decode[domain.Customer](t, w).Email)

	w = ts.do(http.MethodGet, "/api/customer/cust-missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerUpdate(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.register("alice@example.com", "Alice")

	w := ts.do(http.MethodGet, "/api/customer/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decode[[]domain.Customer](t, w)
	require.Len(t, customers, 1)

	w = ts.do(http.MethodPut, "/api/customer/"+customers[0].ID, token, map[string]any{
		"email": "alice.cooper@example.com",
		"name":  "Alice Cooper",
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[domain.Customer](t, w)
	assert.Equal(t, "alice.cooper@example.com", updated.Email)
	assert.Equal(t, "Alice Cooper", updated.Name)
}

func TestCustomerUpdate_EmailConflict(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.register("alice@example.com", "Alice")
	ts.register("bob@example.com", "Bob")

	w := ts.do(http.MethodGet, "/api/customer/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decode[[]domain.Customer](t, w)

	var bobID string
	for _, c := range customers {
		if c.Name == "Bob" {
			bobID = c.ID
		}
	}
	require.NotEmpty(t, bobID)

	w = ts.do(http.MethodPut, "/api/customer/"+bobID, token, map[string]any{
		"email": "alice@example.com",
		"name":  "Bob",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	errResp := decode[response.ErrorResponse](t, w)
	assert.Equal(t, "email already in use", errResp.Message)
}

func TestCustomerDelete(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken := ts.register("alice@example.com", "Alice")
	bobToken := ts.register("bob@example.com", "Bob")

	w := ts.do(http.MethodGet, "/api/customer/", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decode[[]domain.Customer](t, w)

	var bobID string
	for _, c := range customers {
		if c.Name == "Bob" {
			bobID = c.ID
		}
	}
	require.NotEmpty(t, bobID)

	w = ts.do(http.MethodDelete, "/api/customer/"+bobID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bob's session died with the account.
	w = ts.do(http.MethodGet, "/api/book/", bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodDelete, "/api/customer/"+bobID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
