package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/aptradar/aptradar/internal/adapters/elevenlabs"
	"github.com/aptradar/aptradar/internal/adapters/http"
	"github.com/aptradar/aptradar/internal/adapters/memory"
	natsadapter "github.com/aptradar/aptradar/internal/adapters/nats"
	"github.com/aptradar/aptradar/internal/adapters/places"
	"github.com/aptradar/aptradar/internal/adapters/valkey"
	"github.com/aptradar/aptradar/internal/core/ports"
	"github.com/aptradar/aptradar/internal/core/usecases"
	"github.com/aptradar/aptradar/internal/pkg/config"
	"github.com/aptradar/aptradar/internal/pkg/httpc"
	"github.com/aptradar/aptradar/internal/pkg/logging"
	"github.com/aptradar/aptradar/internal/pkg/telemetry"
)

func main() {
	// Local development keeps keys in .env; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("aptradar-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache (optional)
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// NATS for UI event broadcast
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		nc = nil
	} else {
		defer nc.Close()
	}

	// Vendor clients share one retrying HTTP client
	hc := httpc.New(time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second, cfg.Upstream.Retries)
	placesClient := places.New(cfg.Google.Key(), hc)
	speechClient := elevenlabs.New(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.VoiceID, hc)

	// Agent mailbox: valkey survives restarts, memory is the dev default
	mailboxTTL := time.Duration(cfg.Mailbox.TTLSeconds) * time.Second
	var mailbox ports.CommandMailbox
	if cfg.Mailbox.Backend == "valkey" && cache != nil {
		mailbox = valkey.NewMailbox(cache, mailboxTTL)
	} else {
		if cfg.Mailbox.Backend == "valkey" {
			slog.Warn("valkey mailbox requested but cache unavailable, using memory")
		}
		mailbox = memory.NewMailbox(mailboxTTL)
	}

	// Use cases. The caches tolerate a nil backend.
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	searchSvc := usecases.NewSearchService(placesClient, cacheSvc)
	placeSvc := usecases.NewPlaceService(placesClient, cacheSvc)
	voiceSvc := usecases.NewVoiceService(speechClient, searchSvc)
	agentBus := usecases.NewRouter(usecases.DefaultAgents(searchSvc, eventPublisher(nc))...)
	tools := usecases.NewToolRegistry(searchSvc)

	deps := &http.Dependencies{
		Search:          searchSvc,
		Places:          placeSvc,
		Voice:           voiceSvc,
		Router:          agentBus,
		Tools:           tools,
		Mailbox:         mailbox,
		NATS:            nc,
		Cache:           cache,
		PlacesAPI:       placesClient,
		AgentToolSecret: cfg.Agent.ToolSecret,
		AgentRouteToken: cfg.Agent.RouteToken,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    12 * 1024 * 1024, // voice uploads cap at 10 MiB plus multipart overhead
		AppName:      "AptRadar API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Agent-Secret",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// eventPublisher avoids handing a typed nil *Publisher to code that
// checks the interface against nil.
func eventPublisher(nc *natsadapter.Publisher) ports.EventPublisher {
	if nc == nil {
		return nil
	}
	return nc
}
