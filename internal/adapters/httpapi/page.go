package httpapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoboard/internal/dto"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageLanguage struct {
	Code   string
	Label  string
	Active bool
}

type pageData struct {
	Lang      string
	Languages []pageLanguage
	Todos     []dto.TodoResponse
	// CounterTemplate is the raw counter.label message, filled in by the page script.
	CounterTemplate string
	T               func(key string) string
}

// Index handles GET /: the server-rendered page. The list is rendered once
// and then replaced by every snapshot from /api/todos/stream.
func (h *Handler) Index(c *gin.Context) {
	lang := h.locale(c)
	list, err := h.todoUseCase.ListTodos(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	tr := func(key string) string { return h.translator.T(lang, key, nil) }
	data := pageData{
		Lang:            lang,
		Todos:           dto.TodosToResponses(list),
		CounterTemplate: h.translator.Messages(lang)["counter.label"],
		T:               tr,
	}
	for _, code := range h.translator.Languages() {
		data.Languages = append(data.Languages, pageLanguage{
			Code:   code,
			Label:  tr("language." + code),
			Active: code == lang,
		})
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := indexTemplate.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}
