package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"todoboard/internal/adapters/client"
	"todoboard/internal/adapters/tui"
	"todoboard/internal/config"
	"todoboard/internal/infrastructure/i18n"
	"todoboard/internal/log"
)

func main() {
	outputsPath := flag.String("outputs", config.DefaultOutputsPath, "path to the generated client settings file")
	baseURL := flag.String("url", "", "backend URL (overrides the settings file)")
	flag.Parse()

	// The terminal belongs to the UI; logs go to a file only when asked.
	if path := os.Getenv("TODOBOARD_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.InitWriter(f, os.Getenv("LOG_LEVEL"))
	} else {
		log.InitWriter(io.Discard, "disabled")
	}

	out, err := config.LoadOutputs(*outputsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *baseURL != "" {
		out.Data.URL = *baseURL
	}

	translator := i18n.NewTranslator(out.I18n.DefaultLanguage)
	lang := i18n.NewSwitcher(translator, translator.DefaultLanguage())
	c := client.New(out.Data.URL, client.WithLanguage(lang.Language()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("url", out.Data.URL).Msg("starting ui")
	if err := tui.Run(ctx, tui.NewClientBackend(c), lang); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
