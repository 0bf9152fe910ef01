package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fermworks/fermsim/internal/plant"
)

// fermenterSummary is one entry in the /api/fermenters list.
type fermenterSummary struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Temp      float64 `json:"temp"`
	Setpoint  float64 `json:"setpoint"`
	Pressure  float64 `json:"pressure"`
	Mode      string  `json:"mode"`
	PIDOutput float64 `json:"pid_output"`
}

// fermenterDetail is the /api/fermenter/{id} payload. The plan fields are
// fixed placeholders: the simulation stores modes but runs no plan engine.
type fermenterDetail struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Temp           float64 `json:"temp"`
	Setpoint       float64 `json:"setpoint"`
	Pressure       float64 `json:"pressure"`
	TargetPressure float64 `json:"target_pressure"`
	Mode           string  `json:"mode"`
	PIDOutput      float64 `json:"pid_output"`
	PlanActive     bool    `json:"plan_active"`
	CurrentStep    int     `json:"current_step"`
	HoursRemaining float64 `json:"hours_remaining"`
}

// handleListFermenters reports all vessels without advancing the
// simulation.
func (s *Server) handleListFermenters(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	fermenters := make([]fermenterSummary, len(snap.Fermenters))
	for i, f := range snap.Fermenters {
		fermenters[i] = summarise(i+1, f)
	}

	writeJSON(w, http.StatusOK, map[string]any{"fermenters": fermenters})
}

// handleGetFermenter reports one vessel, 404ing outside 1-8.
func (s *Server) handleGetFermenter(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	f, err := s.store.Fermenter(id)
	if err != nil {
		writeFermenterNotFound(w)
		return
	}

	sum := summarise(id, f)
	writeJSON(w, http.StatusOK, fermenterDetail{
		ID:             sum.ID,
		Name:           sum.Name,
		Temp:           sum.Temp,
		Setpoint:       sum.Setpoint,
		Pressure:       sum.Pressure,
		TargetPressure: 1.0,
		Mode:           sum.Mode,
		PIDOutput:      sum.PIDOutput,
		PlanActive:     true,
		CurrentStep:    2,
		HoursRemaining: 48.5,
	})
}

// fermenterRequest is the request body for POST /api/fermenter/{id}.
type fermenterRequest struct {
	Setpoint *float64 `json:"setpoint"`
	Mode     *string  `json:"mode"`
}

// fermenterUpdateResponse is the acknowledgement for POST /api/fermenter/{id}.
// The setpoint echo uses the device's one-decimal rendering.
type fermenterUpdateResponse struct {
	Success  bool    `json:"success"`
	ID       int     `json:"id"`
	Setpoint float64 `json:"setpoint"`
	Mode     string  `json:"mode"`
}

// handleSetFermenter updates a vessel's setpoint and/or mode. Absent fields
// stay unchanged, and an unrecognised mode keyword is silently ignored
// rather than rejected, matching the device.
func (s *Server) handleSetFermenter(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var req fermenterRequest
	decodeBody(r, &req)

	var mode *plant.Mode
	if req.Mode != nil {
		if m := plant.Mode(*req.Mode); m.Valid() {
			mode = &m
		}
	}

	f, err := s.store.ApplyFermenter(id, req.Setpoint, mode)
	if err != nil {
		writeFermenterNotFound(w)
		return
	}

	writeJSON(w, http.StatusOK, fermenterUpdateResponse{
		Success:  true,
		ID:       id,
		Setpoint: roundTo(f.Setpoint, 1),
		Mode:     string(f.Mode),
	})
}

// pidDetail is the /api/pid/{id} payload. The integral and last_error
// fields are fixed placeholders: the simulation has no persistent loop
// internals to expose.
type pidDetail struct {
	FermenterID int     `json:"fermenter_id"`
	Kp          float64 `json:"kp"`
	Ki          float64 `json:"ki"`
	Kd          float64 `json:"kd"`
	Output      float64 `json:"output"`
	OutputMin   int     `json:"output_min"`
	OutputMax   int     `json:"output_max"`
	Integral    float64 `json:"integral"`
	LastError   float64 `json:"last_error"`
}

// handleGetPID reports one vessel's loop tuning, 404ing outside 1-8.
func (s *Server) handleGetPID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	f, err := s.store.Fermenter(id)
	if err != nil {
		writeFermenterNotFound(w)
		return
	}

	writeJSON(w, http.StatusOK, pidDetail{
		FermenterID: id,
		Kp:          roundTo(f.PID.Kp, 3),
		Ki:          roundTo(f.PID.Ki, 3),
		Kd:          roundTo(f.PID.Kd, 3),
		Output:      roundTo(f.PIDOutput, 1),
		OutputMin:   0,
		OutputMax:   100,
		Integral:    12.34,
		LastError:   0.5,
	})
}

// pidRequest is the request body for POST /api/pid/{id}.
type pidRequest struct {
	Kp *float64 `json:"kp"`
	Ki *float64 `json:"ki"`
	Kd *float64 `json:"kd"`
}

// pidUpdateResponse is the acknowledgement for POST /api/pid/{id}.
type pidUpdateResponse struct {
	Success bool    `json:"success"`
	ID      int     `json:"id"`
	Kp      float64 `json:"kp"`
	Ki      float64 `json:"ki"`
	Kd      float64 `json:"kd"`
}

// handleSetPID updates a vessel's loop gains. Absent fields stay unchanged.
func (s *Server) handleSetPID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	var req pidRequest
	decodeBody(r, &req)

	f, err := s.store.ApplyPID(id, req.Kp, req.Ki, req.Kd)
	if err != nil {
		writeFermenterNotFound(w)
		return
	}

	writeJSON(w, http.StatusOK, pidUpdateResponse{
		Success: true,
		ID:      id,
		Kp:      roundTo(f.PID.Kp, 3),
		Ki:      roundTo(f.PID.Ki, 3),
		Kd:      roundTo(f.PID.Kd, 3),
	})
}

// summarise renders one vessel at the device's field precisions.
func summarise(id int, f plant.Fermenter) fermenterSummary {
	return fermenterSummary{
		ID:        id,
		Name:      fmt.Sprintf("F%d", id),
		Temp:      roundTo(f.Temperature, 2),
		Setpoint:  roundTo(f.Setpoint, 2),
		Pressure:  roundTo(f.Pressure, 3),
		Mode:      string(f.Mode),
		PIDOutput: roundTo(f.PIDOutput, 1),
	}
}

// pathID extracts the numeric {id} route parameter. Non-numeric values
// parse to zero, which every store lookup rejects as out of range.
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	return id
}
