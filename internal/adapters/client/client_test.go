package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todoboard/internal/adapters/httpapi"
	"todoboard/internal/application"
	"todoboard/internal/config"
	"todoboard/internal/domain/entities"
	"todoboard/internal/infrastructure/i18n"
	"todoboard/internal/infrastructure/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newBackend(t *testing.T) (*application.TodoService, *Client) {
	t.Helper()
	svc := application.NewTodoService(memory.NewTodoRepository())
	cfg := &config.Config{Env: "development", HTTPAddr: "127.0.0.1:0"}
	srv := httptest.NewServer(httpapi.NewServer(cfg, svc, i18n.NewTranslator("en")).Handler())
	t.Cleanup(func() {
		svc.Shutdown()
		srv.Close()
	})
	return svc, New(srv.URL, WithHTTPClient(srv.Client()))
}

func next(t *testing.T, sub *Subscription) []entities.Todo {
	t.Helper()
	select {
	case items, ok := <-sub.Snapshots():
		if !ok {
			t.Fatalf("subscription ended: %v", sub.Err())
		}
		return items
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func waitClosed(t *testing.T, sub *Subscription) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Snapshots():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("snapshots channel not closed")
		}
	}
}

func TestClient_CreateAndList(t *testing.T) {
	_, c := newBackend(t)
	ctx := context.Background()

	created, err := c.Create(ctx, "write tests")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Errorf("expected backend-assigned fields, got %+v", created)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Content != "write tests" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestClient_ObserveQueryDeliversSnapshots(t *testing.T) {
	_, c := newBackend(t)
	ctx := context.Background()

	sub, err := c.ObserveQuery(ctx)
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	defer sub.Close()

	if initial := next(t, sub); len(initial) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}
	if _, err := c.Create(ctx, "X"); err != nil {
		t.Fatal(err)
	}
	items := next(t, sub)
	if len(items) != 1 || items[0].Content != "X" {
		t.Errorf("expected [X], got %+v", items)
	}
}

func TestSubscription_CloseReleasesServerSide(t *testing.T) {
	svc, c := newBackend(t)

	sub, err := c.ObserveQuery(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	next(t, sub)

	sub.Close()
	sub.Close()
	waitClosed(t, sub)
	if err := sub.Err(); err != nil {
		t.Errorf("expected nil error after Close, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for svc.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("server still holds the subscription")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubscription_ContextCancelCloses(t *testing.T) {
	_, c := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := c.ObserveQuery(ctx)
	if err != nil {
		t.Fatal(err)
	}
	next(t, sub)
	cancel()
	waitClosed(t, sub)
}

func TestSubscription_ServerShutdownEndsCleanly(t *testing.T) {
	svc, c := newBackend(t)

	sub, err := c.ObserveQuery(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()
	next(t, sub)

	svc.Shutdown()
	waitClosed(t, sub)
	if err := sub.Err(); err != nil {
		t.Errorf("expected clean end, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Language") != "ja" {
			t.Errorf("expected Accept-Language ja, got %q", r.Header.Get("Accept-Language"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom","code":""}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithLanguage("ja")).Create(context.Background(), "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Errorf("unexpected api error %+v", apiErr)
	}
}

type countingTransport struct {
	n atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.n.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestClient_WithHTTPClient(t *testing.T) {
	_, base := newBackend(t)
	transport := &countingTransport{}
	c := New(base.baseURL, WithHTTPClient(&http.Client{Transport: transport}))

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := transport.n.Load(); got != 1 {
		t.Errorf("expected the supplied client to carry 1 request, got %d", got)
	}
}
