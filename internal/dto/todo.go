package dto

import (
	"time"

	"todoboard/internal/domain/entities"
)

// CreateTodoRequest is the JSON body for POST /api/todos. A null content is
// stored as an empty string.
type CreateTodoRequest struct {
	Content *string `json:"content"`
}

type TodoResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}

// MessageTypeSnapshot tags live-query frames carrying a full result set.
const MessageTypeSnapshot = "snapshot"

// SnapshotMessage is one live-query delivery, on both the WebSocket and the
// SSE stream.
type SnapshotMessage struct {
	Type  string         `json:"type"`
	Items []TodoResponse `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func TodoToResponse(t entities.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func TodosToResponses(list []entities.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = TodoToResponse(list[i])
	}
	return out
}

func ResponseToTodo(r TodoResponse) entities.Todo {
	return entities.Todo{
		ID:        r.ID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ResponsesToTodos(list []TodoResponse) []entities.Todo {
	out := make([]entities.Todo, len(list))
	for i := range list {
		out[i] = ResponseToTodo(list[i])
	}
	return out
}

func NewSnapshotMessage(list []entities.Todo) SnapshotMessage {
	return SnapshotMessage{Type: MessageTypeSnapshot, Items: TodosToResponses(list)}
}
