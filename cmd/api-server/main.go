package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"schedhub/internal/replacements"
	"schedhub/internal/schedule"
	"schedhub/pkg/config"
	"schedhub/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("SCHEDHUB_CONFIG"), "path to yaml/json config (optional)")
	flag.Parse()

	log := logger.New("api-server")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("загрузка конфигурации не удалась")
	}

	// A broken schedule file degrades to an empty store instead of
	// refusing to start; the failure is visible in the logs and in
	// "no schedule" responses.
	groups := schedule.Load(cfg.Schedule.GroupsFile, cfg.Schedule.NoLesson, logger.New("schedule"))
	teachers := schedule.NewStore(nil, cfg.Schedule.NoLesson)
	if cfg.Schedule.TeachersFile != "" {
		teachers = schedule.Load(cfg.Schedule.TeachersFile, cfg.Schedule.NoLesson, logger.New("teachers"))
	}

	fetcher := replacements.NewFetcher(cfg.Replacements, logger.New("replacements"))
	svc := schedule.NewService(groups, teachers, fetcher, cfg.Replacements.CancelMarker, logger.New("service"))
	handler := schedule.NewHandler(svc, cfg.Schedule.TextFormat, logger.New("http"))

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)
	handler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}
