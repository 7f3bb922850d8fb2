package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"snap-game-server/api"
	"snap-game-server/catalog"
	"snap-game-server/config"
	"snap-game-server/loghandler"
	"snap-game-server/room"
	"snap-game-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found; using environment variables.")
	}

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo)))

	cfg := config.Load()

	if cfg.AuthBaseURL == "" {
		log.Print("Auth: AUTH_BASE_URL is not set; connections are accepted without a token.")
	} else {
		log.Printf("Auth: configured (base URL: %s)", cfg.AuthBaseURL)
	}

	cat, err := catalog.Load(cfg.CardsFile)
	if err != nil {
		log.Fatalf("Card catalog: %v", err)
	}
	log.Printf("Card catalog: %d cards in %d categories", cat.Len(), len(cat.Categories()))

	log.Printf("Configuration: WSPort=%d, CountdownMS=%d, ResolveDelayMS=%d, MaxNameLength=%d",
		cfg.WSPort, cfg.CountdownMS, cfg.ResolveDelayMS, cfg.MaxNameLength)

	registry := room.NewRegistry()

	hub := ws.NewHub(cfg, cat, registry)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	handler := api.NewHandler(cfg, registry)
	mux := handler.Routes(hub.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.WSPort)
	log.Printf("Snap game server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
