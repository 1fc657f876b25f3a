package tui

import (
	"context"

	"todoboard/internal/adapters/client"
	"todoboard/internal/domain/entities"
)

// Subscription is an open live query over the todo list.
type Subscription interface {
	Snapshots() <-chan []entities.Todo
	Err() error
	Close()
}

// Language is the session language state the UI reads and switches.
type Language interface {
	ChangeLanguage(code string)
	Language() string
	Languages() []string
	T(key string) string
	TData(key string, data map[string]any) string
}

// Backend is what the UI needs from the data service.
type Backend interface {
	Create(ctx context.Context, content string) (*entities.Todo, error)
	Observe(ctx context.Context) (Subscription, error)
}

type clientBackend struct {
	c *client.Client
}

// NewClientBackend adapts a backend client to the UI.
func NewClientBackend(c *client.Client) Backend {
	return clientBackend{c: c}
}

func (b clientBackend) Create(ctx context.Context, content string) (*entities.Todo, error) {
	return b.c.Create(ctx, content)
}

func (b clientBackend) Observe(ctx context.Context) (Subscription, error) {
	sub, err := b.c.ObserveQuery(ctx)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
