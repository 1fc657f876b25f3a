package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type bundleResponse struct {
	Language string            `json:"language"`
	Messages map[string]string `json:"messages"`
}

// Bundle handles GET /api/i18n/:lang. Unknown languages get the default
// bundle; the resolved language is reported alongside.
func (h *Handler) Bundle(c *gin.Context) {
	lang := h.translator.Match(c.Param("lang"))
	c.JSON(http.StatusOK, bundleResponse{
		Language: lang,
		Messages: h.translator.Messages(lang),
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
