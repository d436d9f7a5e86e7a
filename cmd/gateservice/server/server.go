package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tanker-queue/internal/gateservice/handler"
	"tanker-queue/internal/gateservice/message"
	"tanker-queue/internal/gateservice/service"
	"tanker-queue/internal/gateservice/store"
	"tanker-queue/pkg/config"
	"tanker-queue/pkg/db"
	"tanker-queue/pkg/logger"
	"tanker-queue/pkg/rabbitmq"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Server struct {
	port       int
	config     *config.Config
	logger     *logger.Logger
	httpServer *http.Server
	dbPool     *pgxpool.Pool
	rabbitMQ   *rabbitmq.RabbitMQ
}

func NewServer(port int, cfg *config.Config, log *logger.Logger) *Server {
	return &Server{
		port:   port,
		config: cfg,
		logger: log,
	}
}

func (s *Server) Start() error {
	ctx := context.Background()

	if err := db.RunMigrations(ctx, &s.config.Database, s.logger); err != nil {
		return err
	}

	pool, err := db.ConnectDB(&s.config.Database, s.logger)
	if err != nil {
		return err
	}
	s.dbPool = pool

	// The broker is optional: without it the service runs, entries are
	// still durable, only live-refresh notifications are skipped.
	var publisher service.Publisher
	rm, err := rabbitmq.ConnectRabbitMQ(&s.config.RabbitMQ, s.logger)
	if err != nil {
		s.logger.Warn("startup", "rabbitmq_unavailable", "RabbitMQ not reachable, notifications disabled")
	} else {
		s.rabbitMQ = rm
		publisher = message.NewEntryPublisher(rm.Channel, s.logger)
	}

	gateService := service.NewGateService(
		store.NewPostgresEntryStore(pool),
		store.NewPostgresVehicleRegistry(pool),
		store.NewPostgresSequenceStore(pool),
		publisher,
		s.logger,
		nil,
	)
	gateHandler := handler.NewGateHandler(gateService, s.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", gateHandler.Health)
	mux.HandleFunc("GET /queue-number", gateHandler.GetQueueNumber)
	mux.HandleFunc("GET /check-plate", gateHandler.CheckPlate)
	mux.HandleFunc("POST /entries", gateHandler.AddEntry)
	mux.HandleFunc("GET /entries", gateHandler.ListEntries)
	mux.HandleFunc("GET /entries/search", gateHandler.SearchEntries)
	mux.HandleFunc("POST /registry", gateHandler.RegisterVehicle)
	mux.HandleFunc("GET /registry", gateHandler.ListRegistry)
	mux.HandleFunc("GET /registry/search", gateHandler.SearchRegistry)
	mux.HandleFunc("PUT /registry/{id}", gateHandler.UpdateRegistration)
	mux.HandleFunc("DELETE /registry/{id}", gateHandler.DeleteRegistration)
	mux.HandleFunc("POST /registry/seed", gateHandler.SeedRegistry)
	mux.HandleFunc("DELETE /registry/seed", gateHandler.ClearRegistry)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("startup", "server_started", fmt.Sprintf("Gate Service started on port %d", s.port))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.rabbitMQ != nil {
		s.rabbitMQ.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
