package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/YaleSpinup/apierror"
	"github.com/YaleSpinup/ecs-sim/common"
	"github.com/YaleSpinup/ecs-sim/ecs"
	"github.com/YaleSpinup/ecs-sim/orchestration"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	log "github.com/sirupsen/logrus"
)

type server struct {
	ecsServices map[string]ecs.ECS
	router      *mux.Router
	version     common.Version
	org         string
}

// publicURLs are served without a token
var publicURLs = map[string]string{
	"/v1/ecs/ping":    "public",
	"/v1/ecs/version": "public",
	"/v1/ecs/metrics": "public",
}

// newServer creates a server with a simulated ecs service for each account and loads
// the account seed files
func newServer(ctx context.Context, config common.Config) (*server, error) {
	s := server{
		ecsServices: make(map[string]ecs.ECS),
		router:      mux.NewRouter(),
		version:     config.Version,
		org:         config.Org,
	}

	for name, c := range config.Accounts {
		log.Debugf("Creating new simulated services for account '%s' (%s) in region '%s'", name, c.AccountID, c.Region)
		s.ecsServices[name] = ecs.NewSession(c)

		if len(c.Seed) == 0 {
			continue
		}

		orchestrator, err := s.newOrchestrator(name)
		if err != nil {
			return nil, err
		}

		arns, err := orchestrator.SeedFiles(ctx, c.Seed...)
		if err != nil {
			return nil, err
		}
		log.Infof("seeded account %s with task definitions %v", name, arns)
	}

	// load routes
	s.routes()

	return &s, nil
}

// handler wraps the router with recovery, logging and token authentication
func (s *server) handler(token string) http.Handler {
	return handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stdout, TokenMiddleware([]byte(token), publicURLs, s.router)))
}

// NewServer creates a new server and starts it
func NewServer(config common.Config) error {
	s, err := newServer(context.Background(), config)
	if err != nil {
		return err
	}

	if config.ListenAddress == "" {
		config.ListenAddress = ":8080"
	}
	srv := &http.Server{
		Handler:      s.handler(config.Token),
		Addr:         config.ListenAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Infof("Starting listener on %s", config.ListenAddress)
	// Run our server in a goroutine so that it doesn't block.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("error starting listener: %s", err)
			os.Exit(1)
		}
	}()

	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+/) will not be caught.
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	<-c

	// setup server context with cancellation
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	// Doesn't block if no connections, but will otherwise wait
	// until the timeout deadline.
	log.Warn("shutting down")
	return srv.Shutdown(ctx)
}

// newOrchestrator returns an orchestrator for the simulated account
func (s *server) newOrchestrator(account string) (*orchestration.Orchestrator, error) {
	e, ok := s.ecsServices[account]
	if !ok {
		msg := fmt.Sprintf("account not found: %s", account)
		return nil, apierror.New(apierror.ErrNotFound, msg, nil)
	}

	return orchestration.NewOrchestrator(e, s.org), nil
}

// LogWriter is an http.ResponseWriter
type LogWriter struct {
	http.ResponseWriter
}

// Write log message if http response writer returns an error
func (w LogWriter) Write(p []byte) (n int, err error) {
	n, err = w.ResponseWriter.Write(p)
	if err != nil {
		log.Errorf("Write failed: %v", err)
	}
	return
}
