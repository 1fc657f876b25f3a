package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"todoboard/internal/application"
	"todoboard/internal/config"
	"todoboard/internal/dto"
	"todoboard/internal/infrastructure/i18n"
	"todoboard/internal/infrastructure/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	svc *application.TodoService
	tr  *i18n.Translator
	srv *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := application.NewTodoService(memory.NewTodoRepository())
	tr := i18n.NewTranslator("en")
	cfg := &config.Config{Env: "development", HTTPAddr: "127.0.0.1:0"}
	srv := httptest.NewServer(NewServer(cfg, svc, tr).Handler())
	t.Cleanup(func() {
		svc.Shutdown()
		srv.Close()
	})
	return &fixture{svc: svc, tr: tr, srv: srv}
}

func (f *fixture) post(t *testing.T, body, lang string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/api/todos", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateThenList(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, `{"content":"buy milk"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created dto.TodoResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Content != "buy milk" {
		t.Errorf("unexpected created todo %+v", created)
	}

	listResp, err := http.Get(f.srv.URL + "/api/todos")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var list dto.ListTodosResponse
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Errorf("expected the created todo in list, got %+v", list.Items)
	}
}

func TestCreate_NullContentStoredAsEmpty(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, `{"content":null}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created dto.TodoResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Content != "" {
		t.Errorf("expected empty content, got %q", created.Content)
	}
}

func TestCreate_MalformedJSONIsLocalized(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, `{"content":`, "ja-JP,ja;q=0.9")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	want := f.tr.T("ja", "error.invalid_payload", nil)
	if body.Error != want {
		t.Errorf("expected %q, got %q", want, body.Error)
	}
	if body.Code != "invalid_payload" {
		t.Errorf("expected invalid_payload code, got %q", body.Code)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) []dto.TodoResponse {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg dto.SnapshotMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if msg.Type != dto.MessageTypeSnapshot {
		t.Fatalf("expected snapshot frame, got %q", msg.Type)
	}
	return msg.Items
}

func TestObserve_SnapshotsOverWebSocket(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/todos/observe"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if initial := readSnapshot(t, conn); len(initial) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}

	f.post(t, `{"content":"X"}`, "")
	items := readSnapshot(t, conn)
	n := 0
	for _, it := range items {
		if it.Content == "X" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected X exactly once, got %+v", items)
	}
}

func TestObserve_DisconnectReleasesSubscription(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/todos/observe"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readSnapshot(t, conn)
	if got := f.svc.SubscriberCount(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for f.svc.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription not released, %d remain", f.svc.SubscriberCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStream_SendsSnapshotEvents(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.CreateTodo(t.Context(), "first"); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, f.srv.URL+"/api/todos/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var sawEvent bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			sawEvent = strings.TrimSpace(strings.TrimPrefix(line, "event:")) == dto.MessageTypeSnapshot
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		if !sawEvent {
			t.Fatal("expected snapshot event name before data")
		}
		var msg dto.SnapshotMessage
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(msg.Items) != 1 || msg.Items[0].Content != "first" {
			t.Errorf("unexpected snapshot %+v", msg.Items)
		}
		return
	}
	t.Fatalf("stream ended without a snapshot: %v", scanner.Err())
}

func TestBundle(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/api/i18n/ja")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body bundleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Language != "ja" {
		t.Errorf("expected ja, got %q", body.Language)
	}
	if body.Messages["welcome"] != "todoboardへようこそ" {
		t.Errorf("expected Japanese welcome, got %q", body.Messages["welcome"])
	}
}

func TestIndex_RendersLocalizedPage(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.CreateTodo(t.Context(), "<b>escape me</b>"); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(f.srv.URL + "/?lang=ja")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	page := buf.String()
	if !strings.Contains(page, "todoboardへようこそ") {
		t.Error("expected Japanese welcome on page")
	}
	if !strings.Contains(page, "&lt;b&gt;escape me&lt;/b&gt;") {
		t.Error("expected todo content to be escaped")
	}
	if !strings.Contains(page, `href="https://docs.amplify.aws/react/start/quickstart/#make-frontend-updates"`) {
		t.Error("expected next-step link on page")
	}
	if !strings.Contains(page, `href="?lang=en"`) || !strings.Contains(page, `href="?lang=ja"`) {
		t.Error("expected a link per bundled language")
	}
}

func TestGzipSkipsStreams(t *testing.T) {
	f := newFixture(t)

	req, _ := http.NewRequest(http.MethodGet, f.srv.URL+"/api/todos", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Content-Encoding"); got != "gzip" {
		t.Errorf("expected gzip for list, got %q", got)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	req, _ = http.NewRequestWithContext(ctx, http.MethodGet, f.srv.URL+"/api/todos/stream", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Errorf("expected stream uncompressed, got %q", got)
	}
}
