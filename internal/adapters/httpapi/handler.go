package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"todoboard/internal/ports/input"
	"todoboard/internal/ports/output"
)

// Translator resolves messages and picks a supported locale from request
// preferences.
type Translator interface {
	output.T
	Match(preferences ...string) string
}

// Handler serves the HTTP and live-query endpoints using use cases.
type Handler struct {
	todoUseCase input.TodoUseCase
	translator  Translator

	upgrader  websocket.Upgrader
	heartbeat time.Duration
}

// NewHandler creates a Handler.
func NewHandler(todoUseCase input.TodoUseCase, translator Translator) *Handler {
	return &Handler{
		todoUseCase: todoUseCase,
		translator:  translator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browsers on other origins may observe the list; the API is read-only there.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		heartbeat: 30 * time.Second,
	}
}
