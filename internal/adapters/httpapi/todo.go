package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoboard/internal/dto"
)

// ListTodos handles GET /api/todos.
func (h *Handler) ListTodos(c *gin.Context) {
	list, err := h.todoUseCase.ListTodos(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: dto.TodosToResponses(list)})
}

// CreateTodo handles POST /api/todos. Content is stored as given, including
// the empty string.
func (h *Handler) CreateTodo(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidPayload(err))
		return
	}
	content := ""
	if req.Content != nil {
		content = *req.Content
	}

	todo, err := h.todoUseCase.CreateTodo(c.Request.Context(), content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TodoToResponse(*todo))
}
