package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"laribot/internal/cache"
	"laribot/internal/chatbot"
	"laribot/internal/config"
	"laribot/internal/display"
	"laribot/internal/openai"
	"laribot/internal/telemetry"
	"laribot/internal/transcript"
)

func main() {
	var (
		configPath string
		model      string
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to TOML config file")
	flag.StringVar(&model, "model", "", "Chat model (overrides config file)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	// .env first, so OPENAI_API_KEY can live next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "Por favor, configure a API key no arquivo .env")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		}
		os.Exit(1)
	}
	if model != "" {
		cfg.Model = model
	}
	cfg.Debug = debug

	logger, err := telemetry.InitLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	tracer, meter, cleanup, err := telemetry.InitTelemetry(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	respCache, err := cache.Open(cfg.CachePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open response cache: %v\n", err)
		os.Exit(1)
	}
	defer respCache.Close()

	client := openai.NewClient(cfg.APIKey, logger, tracer, meter)
	bot := chatbot.New(cfg, transcript.NewStore(), client, client, respCache, display.NewRenderer(os.Stdout), logger)

	if err := bot.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
