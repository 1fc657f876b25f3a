package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoboard/internal/domain"
	"todoboard/internal/dto"
	"todoboard/internal/log"
)

// locale picks the response language: ?lang= first, then Accept-Language.
func (h *Handler) locale(c *gin.Context) string {
	return h.translator.Match(c.Query("lang"), c.GetHeader("Accept-Language"))
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case "invalid_payload":
		return http.StatusBadRequest
	case "subscription_closed":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a localized JSON error. Errors without a domain
// code are logged and reported as internal.
func (h *Handler) respondError(c *gin.Context, err error) {
	code := domain.Code(err)
	status := statusFor(code)
	key := "error.internal"
	if code != "" {
		key = "error." + code
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, dto.ErrorResponse{
		Error: h.translator.T(h.locale(c), key, nil),
		Code:  code,
	})
}

func invalidPayload(err error) error {
	return errors.Join(domain.ErrInvalidPayload, err)
}
