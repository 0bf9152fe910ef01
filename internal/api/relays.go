package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// relayEntry is one entry in the /api/relays list. last_change is a fixed
// placeholder; the simulation does not track switching timestamps.
type relayEntry struct {
	Name       string `json:"name"`
	State      bool   `json:"state"`
	LastChange int    `json:"last_change"`
}

// handleListRelays reports all relay channels without advancing the
// simulation.
func (s *Server) handleListRelays(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	relays := make([]relayEntry, len(snap.Relays))
	for i, rl := range snap.Relays {
		relays[i] = relayEntry{Name: rl.Name, State: rl.State, LastChange: 1000}
	}

	writeJSON(w, http.StatusOK, map[string]any{"relays": relays})
}

// relayRequest is the request body for POST /api/relay/{name}.
type relayRequest struct {
	State *bool `json:"state"`
}

// relayResponse is the acknowledgement for POST /api/relay/{name}.
type relayResponse struct {
	Success bool   `json:"success"`
	Relay   string `json:"relay"`
	State   bool   `json:"state"`
}

// handleSetRelay switches one relay channel by name. An absent state field
// leaves the channel unchanged and echoes its current state. An unknown
// relay name is still acknowledged with success and mutates nothing; the
// echoed state is then the requested one, or false when absent. Both quirks
// are device contract.
func (s *Server) handleSetRelay(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req relayRequest
	decodeBody(r, &req)

	rl, err := s.store.ApplyRelay(name, req.State)
	if err != nil {
		requested := req.State != nil && *req.State
		writeJSON(w, http.StatusOK, relayResponse{Success: true, Relay: name, State: requested})
		return
	}

	if req.State != nil {
		s.publishRelayEvent(rl.Name, rl.State)
	}

	writeJSON(w, http.StatusOK, relayResponse{Success: true, Relay: rl.Name, State: rl.State})
}
