package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/middleware"
)

// respondError maps a domain error to its HTTP status and body.
// Validation failures carry the offending field; server-side failures hide details.
func respondError(c *gin.Context, logger coreport.Logger, message string, err error) {
	status := domainerr.HTTPStatus(err)
	resp := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	}

	var verr *domainerr.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
		resp.Message = verr.Message
	}

	fields := domainerr.LogFields(err)
	fields["path"] = c.Request.URL.Path
	fields["request_id"] = middleware.GetRequestID(c)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error(message, fields)
		if status == http.StatusInternalServerError {
			resp.Message = "Internal server error"
		}
	default:
		logger.Warn(message, fields)
	}

	_ = c.Error(err)
	c.JSON(status, resp)
}

// badRequest reports malformed input before any use case runs
func badRequest(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidInput),
		Message: message,
		Field:   field,
	})
}

// parseAccountID reads a positive account id path parameter
func parseAccountID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAccountID),
			Message: "Invalid account ID format",
			Field:   param,
		})
		return 0, false
	}
	return id, true
}

// outcomeLabel is the metrics label for a use case result
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return strconv.Itoa(domainerr.ErrorCode(err))
}
