package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"study-sync/studysync/broker"
	"study-sync/studysync/config"
	"study-sync/studysync/database"
	"study-sync/studysync/logger"
	"study-sync/studysync/middleware"
	"study-sync/studysync/routes"
	"study-sync/studysync/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Setup(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// The broker is optional: without it the API works but no realtime
	// notifications are pushed.
	var consumer broker.Consumer
	producer, err := broker.InitProducer(cfg)
	if err != nil {
		log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("broker unavailable, realtime notifications disabled")
	} else {
		defer producer.Close()

		natsConsumer, err := broker.InitConsumer(cfg, "studysync-websocket")
		if err != nil {
			log.Warn().Err(err).Msg("failed to subscribe to events")
		} else {
			consumer = natsConsumer
			defer natsConsumer.Close()
		}

		eventHandler := services.NewEventHandlerService(db, producer, cfg.EventPollInterval)
		eventHandler.Start(ctx)
		defer eventHandler.Stop()
	}

	webSocketService := services.NewWebSocketService(consumer, middleware.OriginChecker(cfg.AllowedOrigins))
	webSocketService.Start()
	defer webSocketService.Stop()

	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, cfg.JWTSecret, cfg.JWTExpirationHours)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	routes.RegisterRoutes(router, db, routes.Services{
		Auth:      authService,
		Spaces:    services.NewSpaceService(db),
		Notes:     services.NewNoteService(db),
		WebSocket: webSocketService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
