package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fermworks/fermsim/internal/history"
	"github.com/fermworks/fermsim/internal/infrastructure/config"
	"github.com/fermworks/fermsim/internal/infrastructure/logging"
	"github.com/fermworks/fermsim/internal/plant"
	"github.com/fermworks/fermsim/internal/session"
	"github.com/fermworks/fermsim/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Web       config.WebConfig
	Logger    *logging.Logger
	Store     *plant.Store
	Sessions  *session.Guard
	Telemetry *telemetry.Client // optional: MQTT state/event publishing
	History   *history.Recorder // optional: InfluxDB tick recording
}

// Server is the HTTP API server for fermsim.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	webRoot   string
	logger    *logging.Logger
	store     *plant.Store
	sessions  *session.Guard
	telemetry *telemetry.Client
	history   *history.Recorder
	server    *http.Server
	hub       *Hub
	cancel    context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, plant store, session guard)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("plant store is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session guard is required")
	}
	// Telemetry and history are optional; the wire contract works without
	// either, they only add outbound publishing.

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		webRoot:   deps.Web.Root,
		logger:    deps.Logger,
		store:     deps.Store,
		sessions:  deps.Sessions,
		telemetry: deps.Telemetry,
		history:   deps.History,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and launches the HTTP listener in a
// background goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// tick advances the simulation one step and fans the fresh snapshot out to
// WebSocket subscribers and the optional telemetry and history sinks.
func (s *Server) tick() plant.Snapshot {
	snap := s.store.Step()
	s.publishSnapshot(snap)
	return snap
}

// tickStatus is tick for the status poll: the returned snapshot carries the
// pre-increment transaction counter, and the counter advances afterwards,
// matching the device's render-then-count order.
func (s *Server) tickStatus() plant.Snapshot {
	snap := s.store.StepStatus()
	s.publishSnapshot(snap)
	return snap
}

// publishSnapshot pushes a post-tick snapshot to the WebSocket state
// channel and, when configured, to MQTT and InfluxDB. Outbound publishing
// happens off the request goroutine so a slow broker never delays a poll
// response.
func (s *Server) publishSnapshot(snap plant.Snapshot) {
	if s.hub != nil {
		s.hub.Broadcast(wsChannelState, statePayload(snap))
	}

	if s.telemetry != nil {
		go func() {
			for i, f := range snap.Fermenters {
				if err := s.telemetry.PublishFermenterState(i+1, f); err != nil {
					s.logger.Debug("telemetry state publish failed", "fermenter", i+1, "error", err)
				}
			}
		}()
	}

	if s.history != nil {
		s.history.RecordSnapshot(snap)
	}
}

// publishRelayEvent fans a relay transition out to the WebSocket event
// channel and the optional sinks.
func (s *Server) publishRelayEvent(name string, state bool) {
	if s.hub != nil {
		s.hub.Broadcast(wsChannelRelay, map[string]any{"relay": name, "state": state})
	}

	if s.telemetry != nil {
		go func() {
			if err := s.telemetry.PublishRelayEvent(name, state); err != nil {
				s.logger.Debug("telemetry relay publish failed", "relay", name, "error", err)
			}
		}()
	}

	if s.history != nil {
		s.history.RecordRelay(name, state)
	}
}

// publishOutputEvent fans a digital output transition out to the WebSocket
// event channel and the optional sinks.
func (s *Server) publishOutputEvent(id int, state bool) {
	if s.hub != nil {
		s.hub.Broadcast(wsChannelOutput, map[string]any{"output": id, "state": state})
	}

	if s.telemetry != nil {
		go func() {
			if err := s.telemetry.PublishOutputEvent(id, state); err != nil {
				s.logger.Debug("telemetry output publish failed", "output", id, "error", err)
			}
		}()
	}

	if s.history != nil {
		s.history.RecordOutput(id, state)
	}
}
