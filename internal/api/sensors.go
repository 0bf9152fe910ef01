package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fermworks/fermsim/internal/plant"
)

// sensorCount is the number of entries in the sensor list: two glycol loop
// probes plus a temperature and a pressure probe per vessel.
const sensorCount = 2 + 2*plant.FermenterCount

// sensorReading is one entry in the /api/sensors list.
type sensorReading struct {
	Name       string  `json:"name"`
	ModbusAddr string  `json:"modbus_addr"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Quality    string  `json:"quality"`
	Type       string  `json:"type"`
}

// handleListSensors advances the simulation and reports every probe the
// controller polls over modbus. The glycol loop readings are fixed; the
// vessel readings are live. Modbus addresses are "device:register", with
// vessel i on device i+1.
func (s *Server) handleListSensors(w http.ResponseWriter, _ *http.Request) {
	snap := s.tick()

	sensors := make([]sensorReading, 0, sensorCount)
	sensors = append(sensors,
		sensorReading{Name: "glycol_supply", ModbusAddr: "1:0", Value: 2.1, Unit: "C", Quality: "GOOD", Type: "pt1000"},
		sensorReading{Name: "glycol_return", ModbusAddr: "1:1", Value: 8.5, Unit: "C", Quality: "GOOD", Type: "pt1000"},
	)

	for i, f := range snap.Fermenters {
		id := i + 1
		sensors = append(sensors,
			sensorReading{
				Name:       fmt.Sprintf("fermenter_%d_temp", id),
				ModbusAddr: fmt.Sprintf("%d:0", id+1),
				Value:      roundTo(f.Temperature, 2),
				Unit:       "C",
				Quality:    "GOOD",
				Type:       "pt1000",
			},
			sensorReading{
				Name:       fmt.Sprintf("fermenter_%d_pressure", id),
				ModbusAddr: fmt.Sprintf("%d:1", id+1),
				Value:      roundTo(f.Pressure, 3),
				Unit:       "bar",
				Quality:    "GOOD",
				Type:       "pressure_0_1.6",
			},
		)
	}

	writeJSON(w, http.StatusOK, map[string]any{"sensors": sensors})
}

// sensorDetail is the /api/sensor/{name} payload. The firmware reports its
// live filter internals here; the simulation reports a representative
// fixed set.
type sensorDetail struct {
	Name          string  `json:"name"`
	RawValue      float64 `json:"raw_value"`
	FilteredValue float64 `json:"filtered_value"`
	DisplayValue  float64 `json:"display_value"`
	Unit          string  `json:"unit"`
	Quality       string  `json:"quality"`
	FilterType    int     `json:"filter_type"`
	Alpha         float64 `json:"alpha"`
	Scale         float64 `json:"scale"`
	Timestamp     int     `json:"timestamp"`
}

// handleGetSensor reports one probe's filter chain detail.
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sensorDetail{
		Name:          chi.URLParam(r, "name"),
		RawValue:      18.15,
		FilteredValue: 18.2,
		DisplayValue:  18.2,
		Unit:          "C",
		Quality:       "GOOD",
		FilterType:    2,
		Alpha:         0.3,
		Scale:         0.1,
		Timestamp:     5000,
	})
}

// handleSensorConfig acknowledges a probe configuration write. Nothing is
// persisted; the dashboard only checks the acknowledgement.
func (s *Server) handleSensorConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sensor":  chi.URLParam(r, "name"),
		"message": "Configuration saved",
	})
}
