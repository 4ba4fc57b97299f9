package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/capibaras/clientele/internal/auth"
	"github.com/capibaras/clientele/internal/store"
	"github.com/capibaras/clientele/pkg/crypto"
	apperrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/metrics"
	"github.com/capibaras/clientele/pkg/response"
)

// AuthHandler issues and refreshes employee access tokens.
type AuthHandler struct {
	employees store.EmployeeStore
	jwt       *iauth.JWTService
}

func NewAuthHandler(employees store.EmployeeStore, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{employees: employees, jwt: jwt}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges employee credentials for a signed token. Unknown emails
// and wrong passwords produce the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	employee, err := h.employees.FindByEmail(requestContext(c), req.Username)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if employee == nil || !crypto.VerifyPassword(employee.Password, req.Password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.jwt.Issue(employee)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.JSON(c, http.StatusOK, tokenResponse{Token: token})
}

// Refresh reissues a token for the already-authenticated caller, picking up
// any assignment change since the current token was minted.
func (h *AuthHandler) Refresh(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	employee, err := h.employees.FindByEmail(requestContext(c), identity.Email)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if employee == nil {
		response.Error(c, apperrors.NewNotFound("Employee not found"))
		return
	}

	token, err := h.jwt.Issue(employee)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.JSON(c, http.StatusOK, tokenResponse{Token: token})
}
