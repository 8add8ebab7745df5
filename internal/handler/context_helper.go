package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/middleware"
	"github.com/uzlearn/center-admin-api/internal/models"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func parseIDParam(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

func parseMediaParam(raw string) (composer.MediaID, error) {
	id, err := composer.ParseMediaID(raw)
	if err != nil {
		return composer.MediaID{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid media id")
	}
	return id, nil
}
