package api

import (
	"net/http"

	"github.com/fermworks/fermsim/internal/plant"
)

// deviceSSID is the access point name the controller reports. The
// simulation is never actually associated with anything.
const deviceSSID = "brewery-ops"

// handleCPUHistory reports the buffered CPU load samples, oldest first.
func (s *Server) handleCPUHistory(w http.ResponseWriter, _ *http.Request) {
	samples := s.store.CPUHistory()

	writeJSON(w, http.StatusOK, map[string]any{
		"samples":      samples,
		"interval_sec": plant.HistoryIntervalSec,
		"count":        len(samples),
	})
}

// handleNetworkHistory reports the buffered wireless utilisation samples,
// oldest first, plus the link characteristics the percentages are
// relative to.
func (s *Server) handleNetworkHistory(w http.ResponseWriter, _ *http.Request) {
	samples := s.store.NetworkHistory()

	writeJSON(w, http.StatusOK, map[string]any{
		"samples":         samples,
		"interval_sec":    plant.HistoryIntervalSec,
		"count":           len(samples),
		"link_speed_mbps": plant.LinkSpeedMbps,
		"channel":         plant.WiFiChannel,
	})
}

// wifiSummary is the /api/wifi/summary payload.
type wifiSummary struct {
	Connected     bool   `json:"connected"`
	SSID          string `json:"ssid"`
	RSSI          int    `json:"rssi"`
	LinkSpeedMbps int    `json:"link_speed_mbps"`
	Channel       int    `json:"channel"`
	TxBytes       uint64 `json:"tx_bytes"`
	RxBytes       uint64 `json:"rx_bytes"`
}

// handleWiFiSummary reports the emulated radio link. The byte totals are
// real in the sense that they count actual HTTP traffic served by this
// process; everything else is the fixed identity of the board.
func (s *Server) handleWiFiSummary(w http.ResponseWriter, _ *http.Request) {
	tx, rx := s.store.TrafficTotals()

	writeJSON(w, http.StatusOK, wifiSummary{
		Connected:     true,
		SSID:          deviceSSID,
		RSSI:          deviceRSSI,
		LinkSpeedMbps: plant.LinkSpeedMbps,
		Channel:       plant.WiFiChannel,
		TxBytes:       tx,
		RxBytes:       rx,
	})
}
