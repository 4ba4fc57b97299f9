package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capibaras/clientele/internal/models"
)

func TestResetWipesEverything(t *testing.T) {
	s := newTestServer(t)
	setupCompany(t, s, 3)

	w := s.do(t, http.MethodPost, "/api/v1/reset/client", requestOptions{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ok", decodeBody(t, w)["status"])

	clients, err := s.clients.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestResetWithDemoSeed(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/reset/client?demo=true", requestOptions{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ok", decodeBody(t, w)["status"])

	listing := s.do(t, http.MethodGet, "/api/v1/clients", requestOptions{})
	var clients []map[string]any
	require.NoError(t, json.Unmarshal(listing.Body.Bytes(), &clients))
	require.Len(t, clients, 3)
	assert.Equal(t, "GigaTel", clients[0]["name"])
	assert.Equal(t, "gigatel@"+testDomain, clients[0]["emailIncidents"])

	// demo accounts are usable credentials
	login := s.do(t, http.MethodPost, "/api/v1/auth/employee", requestOptions{
		body: map[string]string{"username": "bernardo.abreu@universo.br", "password": "bernardo123"},
	})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	token := decodeBody(t, login)["token"].(string)
	claims, err := s.jwt.Validate(token, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin", claims.Audience)
}

func TestResetDemoFalseLeavesEmpty(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/reset/client?demo=false", requestOptions{})
	require.Equal(t, http.StatusOK, w.Code)

	clients, err := s.clients.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, clients)
}
