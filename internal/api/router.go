package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// The /api table mirrors the device firmware: detail routes use singular
// resource names (/api/fermenter/{id}, /api/relay/{name}), login, logout
// and health skip the session guard, and everything unmatched falls through
// to the static dashboard.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.trafficMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Session endpoints (no auth required; logout is deliberately open,
		// matching the device)
		r.Get("/health", s.handleHealth)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			// Poll endpoints; each advances the simulation one tick
			r.Get("/status", s.handleStatus)
			r.Get("/sensors", s.handleListSensors)
			r.Get("/can/status", s.handleCANStatus)

			// Sensors
			r.Get("/sensor/{name}", s.handleGetSensor)
			r.Post("/sensor/{name}/config", s.handleSensorConfig)

			// Actuation
			r.Get("/relays", s.handleListRelays)
			r.Post("/relay/{name}", s.handleSetRelay)
			r.Get("/inputs", s.handleListInputs)
			r.Get("/outputs", s.handleListOutputs)
			r.Post("/output/{id}", s.handleSetOutput)

			// Fermenters and loop tuning
			r.Get("/fermenters", s.handleListFermenters)
			r.Get("/fermenter/{id}", s.handleGetFermenter)
			r.Post("/fermenter/{id}", s.handleSetFermenter)
			r.Get("/pid/{id}", s.handleGetPID)
			r.Post("/pid/{id}", s.handleSetPID)

			// Device description and diagnostics
			r.Get("/config", s.handleConfig)
			r.Get("/modules", s.handleModules)
			r.Get("/alarms", s.handleAlarms)
			r.Get("/modbus/stats", s.handleModbusStats)
			r.Get("/cpu/history", s.handleCPUHistory)
			r.Get("/network/history", s.handleNetworkHistory)
			r.Get("/wifi/summary", s.handleWiFiSummary)
			r.Post("/reboot", s.handleReboot)
		})
	})

	// WebSocket (token via query parameter or header, validated in handler)
	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	// Static dashboard files; anything the file server cannot find is a 404
	r.Handle("/*", http.FileServer(http.Dir(s.webRoot)))

	return r
}

// handleHealth returns the device's liveness probe payload.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
