package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"strategystudio/src/handler"
	"strategystudio/src/service"
)

func StartServer(port string, svc *service.StrategyService) {
	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	r.Route("/strategies", func(r chi.Router) {
		r.Get("/", handler.ListStrategiesHandler(svc))
		r.Post("/", handler.CreateStrategyHandler(svc))
		r.Get("/events", StrategyEventsHandler(svc.Events()))
		r.Get("/{id}", handler.GetStrategyHandler(svc))
		r.Put("/{id}", handler.UpdateStrategyHandler(svc))
		r.Delete("/{id}", handler.DeleteStrategyHandler(svc))
		r.Post("/{id}/copy", handler.CopyStrategyHandler(svc))
		r.Post("/{id}/simulate", handler.SubmitSimulationHandler(svc))
		r.Get("/{id}/preview", handler.PreviewStrategyHandler(svc))
	})

	r.Get("/catalog/{category}", handler.CatalogHandler())

	// Graceful server
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
