package handlers_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/capibaras/clientele/internal/api"
	"github.com/capibaras/clientele/internal/app"
	iauth "github.com/capibaras/clientele/internal/auth"
	"github.com/capibaras/clientele/internal/database/testutil"
	"github.com/capibaras/clientele/internal/models"
	"github.com/capibaras/clientele/internal/store"
)

const testDomain = "capibaras.io"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router    *gin.Engine
	db        *gorm.DB
	clients   *store.GormClientStore
	employees *store.GormEmployeeStore
	jwt       *iauth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	keyPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{
		Issuer:     "clientele-test",
		PrivateKey: keyPEM,
	})
	require.NoError(t, err)

	cfg := &app.Config{Domain: testDomain}
	router, err := api.NewRouter(db, jwtService, cfg)
	require.NoError(t, err)

	return &testServer{
		router:    router,
		db:        db,
		clients:   store.NewGormClientStore(db),
		employees: store.NewGormEmployeeStore(db),
		jwt:       jwtService,
	}
}

type requestOptions struct {
	body     any
	identity map[string]any
	rawBody  string
}

func (s *testServer) do(t *testing.T, method, path string, opts requestOptions) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch {
	case opts.rawBody != "":
		reader = bytes.NewReader([]byte(opts.rawBody))
	case opts.body != nil:
		data, err := json.Marshal(opts.body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	default:
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if opts.identity != nil {
		req.Header.Set(iauth.UserInfoHeader, iauth.EncodeIdentity(opts.identity))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireErrorBody(t *testing.T, w *httptest.ResponseRecorder, code int, message string) {
	t.Helper()

	require.Equal(t, code, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, float64(code), body["code"])
	require.Equal(t, message, body["message"])
}

// identityFor builds a gateway payload for an employee the way the gateway
// would after validating one of our own tokens.
func identityFor(e *models.Employee) map[string]any {
	payload := map[string]any{
		"sub":   e.ID,
		"cid":   nil,
		"role":  string(e.Role),
		"aud":   iauth.AudienceFor(e),
		"email": e.Email,
	}
	if e.ClientID != nil {
		payload["cid"] = *e.ClientID
	}
	return payload
}

func seedTestClient(t *testing.T, s *testServer, name, email string, plan *models.Plan) *models.Client {
	t.Helper()

	client := &models.Client{Name: name, EmailIncidents: email, Plan: plan}
	require.NoError(t, s.clients.Create(t.Context(), client))
	return client
}

func seedTestEmployee(t *testing.T, s *testServer, e *models.Employee) *models.Employee {
	t.Helper()

	if e.Password == "" {
		e.Password = "$2a$10$unusedhashunusedhashunusedhashunusedhashunusedhashuse"
	}
	require.NoError(t, s.employees.Create(t.Context(), e))
	return e
}

func planPtr(p models.Plan) *models.Plan { return &p }
