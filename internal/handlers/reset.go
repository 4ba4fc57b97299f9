package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/capibaras/clientele/internal/demo"
	"github.com/capibaras/clientele/internal/store"
	apperrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/logger"
	"github.com/capibaras/clientele/pkg/response"
)

// ResetHandler wipes the dataset, used between acceptance-test runs and for
// demo environments.
type ResetHandler struct {
	clients   store.ClientStore
	employees store.EmployeeStore
	domain    string
}

func NewResetHandler(clients store.ClientStore, employees store.EmployeeStore, domain string) *ResetHandler {
	return &ResetHandler{clients: clients, employees: employees, domain: domain}
}

// Reset deletes every employee and client. With ?demo=true the fixture
// dataset is loaded afterwards.
func (h *ResetHandler) Reset(c *gin.Context) {
	ctx := requestContext(c)

	if err := h.employees.DeleteAll(ctx); err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if err := h.clients.DeleteAll(ctx); err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	if c.Query("demo") == "true" {
		if err := demo.Seed(ctx, h.clients, h.employees, h.domain); err != nil {
			response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			return
		}
		logger.WithModule("reset").Info("demo dataset loaded")
	}

	response.JSON(c, http.StatusOK, gin.H{"status": "Ok"})
}
