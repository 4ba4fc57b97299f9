package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capibaras/clientele/internal/models"
)

func unassignedAdminIdentity() map[string]any {
	return map[string]any{
		"sub": "d9a4f5e2-1111-4e4e-9a3c-000000000001", "cid": nil,
		"role": "admin", "aud": "unassigned_admin",
	}
}

func TestListClients(t *testing.T) {
	s := newTestServer(t)
	seedTestClient(t, s, "Zen Corp", "zen@capibaras.io", planPtr(models.PlanEmpresario))
	seedTestClient(t, s, "Acme", "acme@capibaras.io", nil)

	w := s.do(t, http.MethodGet, "/api/v1/clients", requestOptions{})
	require.Equal(t, http.StatusOK, w.Code)

	var clients []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clients))
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme", clients[0]["name"])
	assert.Equal(t, "Zen Corp", clients[1]["name"])
	assert.Equal(t, "zen@capibaras.io", clients[1]["emailIncidents"])
	// plan never leaks through the public listing
	assert.NotContains(t, clients[1], "plan")
}

func TestRegisterClient(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/clients", requestOptions{
		identity: unassignedAdminIdentity(),
		body:     map[string]string{"name": "Acme", "prefixEmailIncidents": "Acme.Support"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Acme", body["name"])
	assert.Equal(t, "acme.support@"+testDomain, body["emailIncidents"])
	assert.NotContains(t, body, "plan")
}

func TestRegisterClientDuplicate(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]string{"name": "Acme", "prefixEmailIncidents": "acme"}

	w := s.do(t, http.MethodPost, "/api/v1/clients", requestOptions{
		identity: unassignedAdminIdentity(), body: payload,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/clients", requestOptions{
		identity: unassignedAdminIdentity(), body: payload,
	})
	requireErrorBody(t, w, http.StatusConflict, "Email already registered.")
}

func TestRegisterClientForbiddenAudiences(t *testing.T) {
	s := newTestServer(t)

	for _, identity := range []map[string]any{
		{"sub": "x", "cid": "8f2b0170-d5a1-418e-a07f-1567cd4f5f07", "role": "admin", "aud": "admin"},
		{"sub": "x", "cid": nil, "role": "agent", "aud": "unassigned_agent"},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/clients", requestOptions{
			identity: identity,
			body:     map[string]string{"name": "Acme", "prefixEmailIncidents": "acme"},
		})
		requireErrorBody(t, w, http.StatusForbidden, "You do not have access to this resource.")
	}
}

func TestRegisterClientValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/clients", requestOptions{
		identity: unassignedAdminIdentity(),
		body:     map[string]string{"prefixEmailIncidents": "acme"},
	})
	requireErrorBody(t, w, http.StatusBadRequest,
		"Invalid value for name: Missing data for required field.")
}

func TestClientMePlanVisibility(t *testing.T) {
	s := newTestServer(t)
	client := seedTestClient(t, s, "Acme", "acme@capibaras.io", planPtr(models.PlanEmprendedor))

	adminIdentity := map[string]any{"sub": "a", "cid": client.ID, "role": "admin", "aud": "admin"}
	w := s.do(t, http.MethodGet, "/api/v1/clients/me", requestOptions{identity: adminIdentity})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emprendedor", decodeBody(t, w)["plan"])

	agentIdentity := map[string]any{"sub": "b", "cid": client.ID, "role": "agent", "aud": "agent"}
	w = s.do(t, http.MethodGet, "/api/v1/clients/me", requestOptions{identity: agentIdentity})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w), "plan")
}

func TestClientMeNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/clients/me", requestOptions{
		identity: unassignedAdminIdentity(),
	})
	requireErrorBody(t, w, http.StatusNotFound, "Client not found.")
}

func TestSelectPlan(t *testing.T) {
	s := newTestServer(t)
	client := seedTestClient(t, s, "Acme", "acme@capibaras.io", nil)
	identity := map[string]any{"sub": "a", "cid": client.ID, "role": "admin", "aud": "admin"}

	w := s.do(t, http.MethodPost, "/api/v1/clients/me/plan/empresario_plus", requestOptions{
		identity: identity,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "empresario_plus", decodeBody(t, w)["plan"])

	got, err := s.clients.Get(t.Context(), client.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Plan)
	assert.Equal(t, models.PlanEmpresarioPlus, *got.Plan)
}

func TestSelectPlanInvalid(t *testing.T) {
	s := newTestServer(t)
	client := seedTestClient(t, s, "Acme", "acme@capibaras.io", nil)
	identity := map[string]any{"sub": "a", "cid": client.ID, "role": "admin", "aud": "admin"}

	w := s.do(t, http.MethodPost, "/api/v1/clients/me/plan/gold", requestOptions{identity: identity})
	requireErrorBody(t, w, http.StatusBadRequest, "Invalid plan.")
}

func TestSelectPlanForbidden(t *testing.T) {
	s := newTestServer(t)
	client := seedTestClient(t, s, "Acme", "acme@capibaras.io", nil)
	identity := map[string]any{"sub": "a", "cid": client.ID, "role": "analyst", "aud": "analyst"}

	w := s.do(t, http.MethodPost, "/api/v1/clients/me/plan/empresario", requestOptions{identity: identity})
	requireErrorBody(t, w, http.StatusForbidden, "You do not have access to this resource.")
}

func TestGetClient(t *testing.T) {
	s := newTestServer(t)
	client := seedTestClient(t, s, "Acme", "acme@capibaras.io", planPtr(models.PlanEmpresario))

	w := s.do(t, http.MethodGet, "/api/v1/clients/"+client.ID, requestOptions{})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Acme", body["name"])
	assert.NotContains(t, body, "plan")
}

func TestGetClientInvalidID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/clients/not-a-uuid", requestOptions{})
	requireErrorBody(t, w, http.StatusBadRequest, "Invalid client ID.")
}

func TestGetClientNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/clients/4a9ab380-823c-4019-92f1-ba0c0de4a6a1", requestOptions{})
	requireErrorBody(t, w, http.StatusNotFound, "Client not found.")
}

func TestClientDetail(t *testing.T) {
	s := newTestServer(t)
	seedTestClient(t, s, "Acme", "acme@capibaras.io", planPtr(models.PlanEmpresario))

	w := s.do(t, http.MethodPost, "/api/v1/clients/detail", requestOptions{
		body: map[string]string{"email": "ACME@capibaras.io"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "empresario", decodeBody(t, w)["plan"])

	w = s.do(t, http.MethodPost, "/api/v1/clients/detail", requestOptions{
		body: map[string]string{"email": "nobody@capibaras.io"},
	})
	requireErrorBody(t, w, http.StatusNotFound, "Client not found.")
}
