package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fermworks/fermsim/internal/plant"
)

// Fixed device identity reported by /api/status. The values replicate the
// firmware build the dashboard was developed against.
const (
	deviceVersion  = "0.1.0"
	deviceBuild    = "251124"
	deviceBuilt    = "Nov 24 2025 14:30:00"
	deviceFreeHeap = 245000
	deviceRSSI     = -65
	flashUsed      = 1015808
	flashTotal     = 4194304
)

// statusResponse is the /api/status payload.
type statusResponse struct {
	Version            string `json:"version"`
	Build              string `json:"build"`
	Built              string `json:"built"`
	Uptime             string `json:"uptime"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
	FreeHeap           int    `json:"free_heap"`
	WiFiRSSI           int    `json:"wifi_rssi"`
	NTPSynced          bool   `json:"ntp_synced"`
	SensorCount        int    `json:"sensor_count"`
	FermenterCount     int    `json:"fermenter_count"`
	ModbusTransactions uint64 `json:"modbus_transactions"`
	ModbusErrors       uint64 `json:"modbus_errors"`
	SystemTime         string `json:"system_time"`
	Timezone           string `json:"timezone"`
	FlashUsed          int    `json:"flash_used"`
	FlashTotal         int    `json:"flash_total"`
}

// handleStatus advances the simulation and reports the controller overview.
// The transaction counter in the payload is the pre-increment value; the
// counter advances as part of rendering, so each poll sees the previous
// total and the next poll sees exactly one more.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.tickStatus()
	up := s.store.Uptime()

	writeJSON(w, http.StatusOK, statusResponse{
		Version:            deviceVersion,
		Build:              deviceBuild,
		Built:              deviceBuilt,
		Uptime:             formatUptime(up),
		UptimeSeconds:      int64(up.Seconds()),
		FreeHeap:           deviceFreeHeap,
		WiFiRSSI:           deviceRSSI,
		NTPSynced:          true,
		SensorCount:        sensorCount,
		FermenterCount:     plant.FermenterCount,
		ModbusTransactions: snap.Counters.Transactions,
		ModbusErrors:       snap.Counters.Errors,
		SystemTime:         time.Now().UTC().Format("2006-01-02 15:04:05"),
		Timezone:           "UTC",
		FlashUsed:          flashUsed,
		FlashTotal:         flashTotal,
	})
}

// configResponse is the /api/config payload.
type configResponse struct {
	FermenterCount    int          `json:"fermenter_count"`
	ModbusDeviceCount int          `json:"modbus_device_count"`
	GPIORelayCount    int          `json:"gpio_relay_count"`
	Timing            timingConfig `json:"timing"`
}

// timingConfig mirrors the firmware's loop scheduling block.
type timingConfig struct {
	ModbusPollMs  int `json:"modbus_poll_ms"`
	PIDIntervalMs int `json:"pid_interval_ms"`
	SafetyCheckMs int `json:"safety_check_ms"`
}

// handleConfig reports the controller's hardware description.
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		FermenterCount:    plant.FermenterCount,
		ModbusDeviceCount: 4,
		GPIORelayCount:    8,
		Timing: timingConfig{
			ModbusPollMs:  1000,
			PIDIntervalMs: 5000,
			SafetyCheckMs: 1000,
		},
	})
}

// handleModules reports which firmware modules are active. The mqtt flag is
// the one live value: it reflects whether the telemetry publisher is wired.
func (s *Server) handleModules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"modules": map[string]bool{
			"wifi":          true,
			"ntp":           true,
			"http":          true,
			"mqtt":          s.telemetry != nil,
			"can":           true,
			"debug_console": true,
		},
	})
}

// canStatusResponse is the /api/can/status payload.
type canStatusResponse struct {
	TX      int    `json:"tx"`
	RX      int    `json:"rx"`
	Errors  int    `json:"errors"`
	State   string `json:"state"`
	Bitrate int    `json:"bitrate"`
}

// handleCANStatus advances the simulation and reports the (static) CAN bus
// figures. The tick is deliberate: the device refreshes its plant state on
// this poll too.
func (s *Server) handleCANStatus(w http.ResponseWriter, _ *http.Request) {
	s.tick()

	writeJSON(w, http.StatusOK, canStatusResponse{
		TX:      15,
		RX:      42,
		Errors:  0,
		State:   "OK",
		Bitrate: 500000,
	})
}

// modbusStatsResponse is the /api/modbus/stats payload.
type modbusStatsResponse struct {
	Transactions uint64  `json:"transactions"`
	Errors       uint64  `json:"errors"`
	ErrorRate    float64 `json:"error_rate"`
}

// handleModbusStats reports the bus counters without advancing the
// simulation.
func (s *Server) handleModbusStats(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	var rate float64
	if snap.Counters.Transactions > 0 {
		rate = 100 * float64(snap.Counters.Errors) / float64(snap.Counters.Transactions)
	}

	writeJSON(w, http.StatusOK, modbusStatsResponse{
		Transactions: snap.Counters.Transactions,
		Errors:       snap.Counters.Errors,
		ErrorRate:    roundTo(rate, 2),
	})
}

// handleAlarms reports the alarm list, which is always empty in the
// simulation.
func (s *Server) handleAlarms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alarms": []any{}})
}

// handleReboot acknowledges a reboot request without restarting anything.
// The process keeps running; the dashboard only checks the acknowledgement.
func (s *Server) handleReboot(w http.ResponseWriter, _ *http.Request) {
	s.logger.Info("reboot requested; ignoring (simulation)")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Rebooting...",
	})
}

// formatUptime renders a duration the way the firmware prints it: "1h 4m 9s".
func formatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	return fmt.Sprintf("%dh %dm %ds", secs/3600, (secs%3600)/60, secs%60)
}
