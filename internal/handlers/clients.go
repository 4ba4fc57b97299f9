package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/capibaras/clientele/internal/models"
	"github.com/capibaras/clientele/internal/store"
	apperrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/metrics"
	"github.com/capibaras/clientele/pkg/response"
)

// ClientHandler serves client company resources.
type ClientHandler struct {
	clients store.ClientStore
	domain  string
}

// NewClientHandler builds a handler. domain is the email suffix appended to
// registered incident-mail prefixes.
func NewClientHandler(clients store.ClientStore, domain string) *ClientHandler {
	return &ClientHandler{clients: clients, domain: domain}
}

// clientSummary is the public client shape. Plan stays internal.
type clientSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	EmailIncidents string `json:"emailIncidents"`
}

// clientDetail additionally exposes the subscription plan.
type clientDetail struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	EmailIncidents string       `json:"emailIncidents"`
	Plan           *models.Plan `json:"plan"`
}

func summarize(client *models.Client) clientSummary {
	return clientSummary{
		ID:             client.ID,
		Name:           client.Name,
		EmailIncidents: client.EmailIncidents,
	}
}

func detail(client *models.Client) clientDetail {
	return clientDetail{
		ID:             client.ID,
		Name:           client.Name,
		EmailIncidents: client.EmailIncidents,
		Plan:           client.Plan,
	}
}

// List returns every registered client. Public, plan never included.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.List(requestContext(c))
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	payload := make([]clientSummary, 0, len(clients))
	for i := range clients {
		payload = append(payload, summarize(&clients[i]))
	}
	response.JSON(c, http.StatusOK, payload)
}

type registerClientRequest struct {
	Name                 string `json:"name" validate:"required,min=1,max=60"`
	PrefixEmailIncidents string `json:"prefixEmailIncidents" validate:"required,min=1,max=60"`
}

// Register creates a client company. Only admins who are not yet linked to a
// company may register one; the caller is not linked automatically.
func (h *ClientHandler) Register(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	if identity.Audience != "unassigned_admin" {
		response.AbortWithError(c, apperrors.ErrForbidden)
		return
	}

	var req registerClientRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client := &models.Client{
		Name:           req.Name,
		EmailIncidents: strings.ToLower(req.PrefixEmailIncidents + "@" + h.domain),
	}
	if err := h.clients.Create(requestContext(c), client); err != nil {
		var dup *store.DuplicateEmailError
		if errors.As(err, &dup) {
			metrics.DuplicateEmails.WithLabelValues("client").Inc()
			response.Error(c, apperrors.NewConflict("Email already registered."))
			return
		}
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.JSON(c, http.StatusCreated, summarize(client))
}

// Me returns the caller's client company. Plan is included only for admins.
func (h *ClientHandler) Me(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	if identity.ClientID == nil {
		response.Error(c, apperrors.NewNotFound("Client not found."))
		return
	}

	client, err := h.clients.Get(requestContext(c), *identity.ClientID)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if client == nil {
		response.Error(c, apperrors.NewNotFound("Client not found."))
		return
	}

	if identity.Role == models.RoleAdmin {
		response.JSON(c, http.StatusOK, detail(client))
		return
	}
	response.JSON(c, http.StatusOK, summarize(client))
}

// SelectPlan sets the caller company's subscription plan. Admin only.
func (h *ClientHandler) SelectPlan(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	if !requireRole(c, identity, models.RoleAdmin) {
		return
	}

	plan := models.Plan(c.Param("plan"))
	if !plan.Valid() {
		response.Error(c, apperrors.NewBadRequest("Invalid plan."))
		return
	}

	if identity.ClientID == nil {
		response.Error(c, apperrors.NewNotFound("Client not found."))
		return
	}
	client, err := h.clients.Get(requestContext(c), *identity.ClientID)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if client == nil {
		response.Error(c, apperrors.NewNotFound("Client not found."))
		return
	}

	client.Plan = &plan
	if err := h.clients.Update(requestContext(c), client); err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.JSON(c, http.StatusOK, detail(client))
}

// Get returns one client by id. Public, plan never included.
func (h *ClientHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if parsed, err := uuid.Parse(id); err != nil || parsed.Version() != 4 {
		response.Error(c, apperrors.NewBadRequest("Invalid client ID."))
		return
	}

	client, err := h.clients.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if client == nil {
		response.Error(c, apperrors.NewNotFound("Client not found."))
		return
	}

	response.JSON(c, http.StatusOK, summarize(client))
}

type clientDetailRequest struct {
	Email string `json:"email" validate:"required"`
}

// Detail resolves a client by incidents email, plan included. Serves trusted
// internal callers that route incident mail.
func (h *ClientHandler) Detail(c *gin.Context) {
	var req clientDetailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client, err := h.clients.FindByEmail(requestContext(c), req.Email)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if client == nil {
		response.Error(c, apperrors.NewNotFound("Client not found."))
		return
	}

	response.JSON(c, http.StatusOK, detail(client))
}
