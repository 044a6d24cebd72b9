package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/logger"
)

// RespondWithDomainError maps the shared error taxonomy onto HTTP statuses.
// Unexpected errors are logged, never returned; upstream causes are logged
// by the remote lookup and only summarized here.
func RespondWithDomainError(c *gin.Context, err error) {
	var (
		validation *errs.ValidationError
		upstream   *errs.UpstreamError
	)
	switch {
	case errors.As(err, &validation):
		RespondWithError(c, http.StatusBadRequest, validation.Error())
	case errors.Is(err, errs.ErrInsufficientBalance):
		RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.As(err, &upstream):
		// the cause was already logged where the lookup failed
		RespondWithError(c, http.StatusBadGateway, fmt.Sprintf("Unable to reach the %s service", upstream.Entity))
	default:
		logger.Error("unhandled error", err, logger.Fields{
			"requestId": logger.RequestID(c.Request.Context()),
			"path":      c.Request.URL.Path,
		})
		RespondWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func RespondMalformedJSON(c *gin.Context) {
	RespondWithError(c, http.StatusBadRequest, "Malformed JSON request")
}

func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondWithError(c, http.StatusNotFound, "Route not found")
	}
}

// ParseIDParam reads a numeric path parameter, answering 400 when it is not
// one.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be a number", name))
		return 0, false
	}
	return id, true
}
