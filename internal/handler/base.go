package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
	"github.com/jwalitptl/medtrack-api/pkg/validator"
)

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest("invalid "+param, err)
	}
	return id, nil
}

// BindJSON decodes and validates the body into req.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.BadRequest(validator.Describe(err), err)
	}
	return nil
}
