package api

import (
	"net/http"
)

// ioPoint is one digital channel in the inputs and outputs lists.
type ioPoint struct {
	ID    int  `json:"id"`
	State bool `json:"state"`
}

// handleListInputs reports the eight digital inputs.
func (s *Server) handleListInputs(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	inputs := make([]ioPoint, len(snap.Inputs))
	for i, state := range snap.Inputs {
		inputs[i] = ioPoint{ID: i + 1, State: state}
	}

	writeJSON(w, http.StatusOK, map[string]any{"inputs": inputs})
}

// handleListOutputs reports the eight digital outputs.
func (s *Server) handleListOutputs(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	outputs := make([]ioPoint, len(snap.Outputs))
	for i, state := range snap.Outputs {
		outputs[i] = ioPoint{ID: i + 1, State: state}
	}

	writeJSON(w, http.StatusOK, map[string]any{"outputs": outputs})
}

// outputRequest is the request body for POST /api/output/{id}.
type outputRequest struct {
	State *bool `json:"state"`
}

// outputResponse is the acknowledgement for POST /api/output/{id}.
type outputResponse struct {
	Success bool `json:"success"`
	Output  int  `json:"output"`
	State   bool `json:"state"`
}

// handleSetOutput drives one digital output. Unlike the named-relay
// endpoint, an out-of-range channel here is a bare 400: the two endpoints
// disagree on purpose because the device does.
func (s *Server) handleSetOutput(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var req outputRequest
	decodeBody(r, &req)

	state, err := s.store.ApplyOutput(id, req.State)
	if err != nil {
		writeBadRequest(w)
		return
	}

	if req.State != nil {
		s.publishOutputEvent(id, state)
	}

	writeJSON(w, http.StatusOK, outputResponse{
		Success: true,
		Output:  id,
		State:   state,
	})
}
