package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/capibaras/clientele/pkg/errors"
	"github.com/capibaras/clientele/pkg/response"
	appValidator "github.com/capibaras/clientele/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation
// rules. When either step fails, the 400 response is already written and
// false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(
			"The request body could not be parsed as valid JSON."))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	ve, ok := err.(appValidator.FieldErrors)
	if !ok || len(ve) == 0 {
		return "Invalid request payload."
	}

	messages := make([]string, 0, len(ve))
	for _, failure := range ve {
		messages = append(messages, fmt.Sprintf("Invalid value for %s: %s",
			failure.Field, failureReason(failure)))
	}
	return strings.Join(messages, "; ")
}

func failureReason(failure appValidator.FieldError) string {
	switch failure.Tag {
	case "required":
		return "Missing data for required field."
	case "min":
		return fmt.Sprintf("Shorter than minimum length %s.", failure.Param)
	case "max":
		return fmt.Sprintf("Longer than maximum length %s.", failure.Param)
	case "email":
		return "Not a valid email address."
	case "uuid4":
		return "Not a valid UUID."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(failure.Param, " ", ", "))
	default:
		return "Invalid value."
	}
}
