package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"todoboard/internal/config"
	"todoboard/internal/log"
	"todoboard/internal/ports/input"
)

// Streaming endpoints must reach the client unbuffered.
var streamingPaths = []string{"/api/todos/stream", "/api/todos/observe"}

// Server is the HTTP adapter.
type Server struct {
	http    *http.Server
	handler *Handler
}

// NewServer creates a Server and wires ports: use cases -> handler -> router.
func NewServer(cfg *config.Config, todoUseCase input.TodoUseCase, translator Translator) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := NewHandler(todoUseCase, translator)
	return &Server{
		handler: handler,
		http: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           NewRouter(handler),
			ReadHeaderTimeout: cfg.ReadTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          log.StdErrorLogger(),
		},
	}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(streamingPaths)))

	r.GET("/", h.Index)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/i18n/:lang", h.Bundle)

		todos := api.Group("/todos")
		todos.GET("", h.ListTodos)
		todos.POST("", h.CreateTodo)
		todos.GET("/observe", h.ObserveTodos)
		todos.GET("/stream", h.StreamTodos)
	}
	return r
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. Live-query
// connections end when the use case closes their subscriptions.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
