package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoboard/internal/adapters/httpapi"
	"todoboard/internal/application"
	"todoboard/internal/config"
	"todoboard/internal/infrastructure/i18n"
	"todoboard/internal/log"
)

func main() {
	writeOutputs := flag.String("write-outputs", "", "write the client settings file to this path on startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Init(cfg.IsDevelopment(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreKind).Msg("failed to open store")
	}
	defer st.close()

	todoService := application.NewTodoService(st.repo)
	if st.feed != nil {
		go func() {
			if err := todoService.RunChangeFeed(ctx, st.feed); err != nil {
				log.Error().Err(err).Msg("change feed stopped")
			}
		}()
	}

	translator := i18n.NewTranslator(cfg.DefaultLocale)
	server := httpapi.NewServer(cfg, todoService, translator)

	if *writeOutputs != "" {
		out := &config.Outputs{}
		out.Data.URL = publicURL(cfg.HTTPAddr)
		out.I18n.DefaultLanguage = translator.DefaultLanguage()
		if err := config.WriteOutputs(*writeOutputs, out); err != nil {
			log.Fatal().Err(err).Msg("failed to write client settings")
		}
		log.Info().Str("path", *writeOutputs).Str("url", out.Data.URL).Msg("client settings written")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	// Live queries end first so streaming handlers return before Shutdown waits on them.
	todoService.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}

// publicURL turns a listen address into a URL a local client can dial.
func publicURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
