package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	iauth "github.com/capibaras/clientele/internal/auth"
	"github.com/capibaras/clientele/internal/models"
	"github.com/capibaras/clientele/internal/pagination"
	"github.com/capibaras/clientele/internal/store"
	"github.com/capibaras/clientele/pkg/crypto"
	apperrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/metrics"
	"github.com/capibaras/clientele/pkg/response"
)

// errCompanyForbidden is the 403 used by company-scoped employee endpoints.
// Its wording differs from the generic forbidden error.
var errCompanyForbidden = apperrors.New(http.StatusForbidden,
	"Forbidden: You do not have access to this resource.")

// EmployeeHandler serves employee accounts and the invitation workflow.
type EmployeeHandler struct {
	employees store.EmployeeStore
}

func NewEmployeeHandler(employees store.EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

type registerEmployeeRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin analyst agent"`
}

// Register creates an employee account in the unassigned pool. Open signup;
// assignment to a company happens through invitations only.
func (h *EmployeeHandler) Register(c *gin.Context) {
	var req registerEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	employee := &models.Employee{
		Name:             req.Name,
		Email:            req.Email,
		Password:         hashed,
		Role:             models.Role(req.Role),
		InvitationStatus: models.InvitationUninvited,
		InvitationDate:   time.Now().UTC(),
	}
	if err := h.employees.Create(requestContext(c), employee); err != nil {
		var dup *store.DuplicateEmailError
		if errors.As(err, &dup) {
			metrics.DuplicateEmails.WithLabelValues("employee").Inc()
			response.Error(c, apperrors.NewConflict("Email already registered"))
			return
		}
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.JSON(c, http.StatusCreated, employee)
}

// Me returns the caller's own employee record.
func (h *EmployeeHandler) Me(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	employee, err := h.employees.Get(requestContext(c), identity.Subject, identity.ClientID)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if employee == nil {
		response.Error(c, apperrors.NewNotFound("Employee not found"))
		return
	}

	response.JSON(c, http.StatusOK, employee)
}

// requireAssignedAdmin gates company-scoped operations: the caller must be an
// admin whose audience reflects an accepted assignment.
func requireAssignedAdmin(c *gin.Context, identity *iauth.Identity) bool {
	if identity.Role != models.RoleAdmin || identity.Audience != string(models.RoleAdmin) ||
		identity.ClientID == nil {
		response.AbortWithError(c, errCompanyForbidden)
		return false
	}
	return true
}

type employeePage struct {
	Employees   []models.Employee `json:"employees"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

type employeeCursorPage struct {
	Employees     []models.Employee `json:"employees"`
	NextPageToken string            `json:"nextPageToken"`
}

// List returns one page of the caller company's employees, newest invitation
// first. page_token switches to cursor pagination; otherwise page_number /
// page_size select an offset window.
func (h *EmployeeHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	if !requireAssignedAdmin(c, identity) {
		return
	}

	pageSize, err := pagination.ParsePageSize(c.Query("page_size"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Request.URL.Query().Has("page_token") {
		employees, next, err := h.employees.ListPage(requestContext(c), *identity.ClientID, pageSize, c.Query("page_token"))
		if err != nil {
			response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			return
		}
		if employees == nil {
			employees = []models.Employee{}
		}
		response.JSON(c, http.StatusOK, employeeCursorPage{Employees: employees, NextPageToken: next})
		return
	}

	pageNumber, err := pagination.ParsePageNumber(c.Query("page_number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	employees, total, err := h.employees.ListByClient(requestContext(c), *identity.ClientID,
		store.ListOptions{PageSize: pageSize, PageNumber: pageNumber})
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	if employees == nil {
		employees = []models.Employee{}
	}
	response.JSON(c, http.StatusOK, employeePage{
		Employees:   employees,
		TotalPages:  pagination.TotalPages(total, pageSize),
		CurrentPage: pageNumber,
	})
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Invite links an unassigned employee to the caller's company with a pending
// invitation.
func (h *EmployeeHandler) Invite(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	if !requireAssignedAdmin(c, identity) {
		return
	}

	var req inviteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	target, err := h.employees.FindByEmail(requestContext(c), req.Email)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if target == nil {
		response.Error(c, apperrors.NewNotFound("Employee not found"))
		return
	}

	if target.ClientID != nil {
		switch {
		case *target.ClientID != *identity.ClientID:
			response.Error(c, apperrors.NewConflict("Employee already linked to another company."))
		case target.InvitationStatus == models.InvitationAccepted:
			response.Error(c, apperrors.NewConflict("Employee already linked to this company."))
		default:
			response.Error(c, apperrors.NewConflict("Employee already invited."))
		}
		return
	}
	if target.InvitationStatus != models.InvitationUninvited {
		response.Error(c, apperrors.NewConflict("Employee already invited."))
		return
	}

	target.ClientID = identity.ClientID
	target.InvitationStatus = models.InvitationPending
	target.InvitationDate = time.Now().UTC()
	if err := h.employees.Update(requestContext(c), target); err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	metrics.InvitationTransitions.WithLabelValues("invite").Inc()
	response.JSON(c, http.StatusOK, target)
}

type invitationResponseRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted declined"`
}

// RespondInvitation lets the caller accept or decline their pending
// invitation. The lookup ignores the token's client claim, which predates
// the invite.
func (h *EmployeeHandler) RespondInvitation(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req invitationResponseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	employee, err := h.employees.GetByID(requestContext(c), identity.Subject)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if employee == nil {
		response.Error(c, apperrors.NewNotFound("Employee not found"))
		return
	}

	switch employee.InvitationStatus {
	case models.InvitationAccepted:
		response.Error(c, apperrors.NewConflict("Invitation already accepted."))
		return
	case models.InvitationUninvited:
		response.Error(c, apperrors.NewNotFound("No invitation found"))
		return
	}

	if req.Response == string(models.InvitationResponseAccepted) {
		employee.InvitationStatus = models.InvitationAccepted
		metrics.InvitationTransitions.WithLabelValues("accept").Inc()
	} else {
		employee.ClientID = nil
		employee.InvitationStatus = models.InvitationUninvited
		employee.InvitationDate = time.Now().UTC()
		metrics.InvitationTransitions.WithLabelValues("decline").Inc()
	}

	if err := h.employees.Update(requestContext(c), employee); err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.JSON(c, http.StatusOK, employee)
}
