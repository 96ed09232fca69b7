package handlers

import (
	"net/http"

	"retailhub-backend/apperrors"
	"retailhub-backend/models"
	"retailhub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps an application error onto the response envelope. Raw
// error text is only exposed for internal (5xx) failures.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	body := gin.H{"success": false, "message": appErr.Message}
	if appErr.Code >= http.StatusInternalServerError && appErr.Err != nil {
		body["error"] = appErr.Err.Error()
	}
	c.JSON(appErr.Code, body)
}

func principalFromContext(c *gin.Context) services.Principal {
	p := services.Principal{}
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			p.UserID = id
		}
	}
	if v, ok := c.Get("user_role"); ok {
		if role, ok := v.(models.Role); ok {
			p.Role = role
		}
	}
	if v, ok := c.Get("franchise_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			p.FranchiseID = &id
		}
	}
	return p
}

// parseIDParam parses the :id path parameter as a UUID.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
