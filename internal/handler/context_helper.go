package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/middleware"
	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}

// pathID parses the :id parameter. Non-numeric or non-positive values yield INVALID_ID.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidID, "valid id is required"))
		return 0, false
	}
	return id, true
}

// listParams reads limit and offset. Unparseable values fall back to the defaults.
func listParams(c *gin.Context) models.ListParams {
	var p models.ListParams
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		p.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		p.Offset = offset
	}
	return p.Normalize()
}

// boolQuery returns nil when the parameter is absent so the filter is skipped.
func boolQuery(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value := raw == "true" || raw == "1"
	return &value
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid JSON payload"))
		return false
	}
	return true
}

// deleted answers a delete with a confirmation message and the removed record under key.
func deleted(c *gin.Context, label, key string, item interface{}) {
	response.JSON(c, http.StatusOK, gin.H{
		"message": label + " deleted successfully",
		key:       item,
	}, nil)
}
