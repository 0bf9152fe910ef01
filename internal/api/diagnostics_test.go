package api

import (
	"net/http"
	"testing"
)

// ─── CPU History Tests ─────────────────────────────────────────────

func TestCPUHistory(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	resp := decodeResponse(t, authGet(router, "/api/cpu/history"))
	if resp["count"] != float64(0) {
		t.Errorf("fresh count = %v, want 0", resp["count"])
	}
	if resp["interval_sec"] != float64(15) {
		t.Errorf("interval_sec = %v, want 15", resp["interval_sec"])
	}

	authGet(router, "/api/sensors")
	authGet(router, "/api/sensors")

	resp = decodeResponse(t, authGet(router, "/api/cpu/history"))
	if resp["count"] != float64(2) {
		t.Fatalf("count after two polls = %v, want 2", resp["count"])
	}

	// With noise pinned at zero the load walk holds its 45% seed.
	samples := resp["samples"].([]any)
	if len(samples) != 2 {
		t.Fatalf("samples = %v, want 2 entries", samples)
	}
	for i, v := range samples {
		if v != float64(45) {
			t.Errorf("sample %d = %v, want 45", i, v)
		}
	}
}

// ─── Network History Tests ─────────────────────────────────────────

func TestNetworkHistory(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	authGet(router, "/api/sensors")

	w := authGet(router, "/api/network/history")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeResponse(t, w)
	if resp["interval_sec"] != float64(15) {
		t.Errorf("interval_sec = %v, want 15", resp["interval_sec"])
	}
	if resp["link_speed_mbps"] != float64(72) {
		t.Errorf("link_speed_mbps = %v, want 72", resp["link_speed_mbps"])
	}
	if resp["channel"] != float64(6) {
		t.Errorf("channel = %v, want 6", resp["channel"])
	}

	samples, ok := resp["samples"].([]any)
	if !ok || len(samples) != 1 {
		t.Fatalf("samples = %v, want one entry after one poll", resp["samples"])
	}
	if resp["count"] != float64(1) {
		t.Errorf("count = %v, want 1", resp["count"])
	}

	// Utilisation is a percentage of link capacity.
	for i, v := range samples {
		pct := v.(float64)
		if pct < 0 || pct > 100 {
			t.Errorf("sample %d = %v, want 0..100", i, pct)
		}
	}
}

// ─── WiFi Summary Tests ────────────────────────────────────────────

func TestWiFiSummary(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	// Generate some HTTP traffic first: a response for the transmit total
	// and a request body for the receive total.
	authGet(router, "/api/config")
	authPost(router, "/api/relay/heater", `{"state": true}`)

	w := authGet(router, "/api/wifi/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeResponse(t, w)
	if resp["connected"] != true {
		t.Errorf("connected = %v, want true", resp["connected"])
	}
	if resp["ssid"] != "brewery-ops" {
		t.Errorf("ssid = %v, want brewery-ops", resp["ssid"])
	}
	if resp["rssi"] != float64(-65) {
		t.Errorf("rssi = %v, want -65", resp["rssi"])
	}
	if resp["link_speed_mbps"] != float64(72) || resp["channel"] != float64(6) {
		t.Errorf("link = %v Mbps ch %v, want 72/6", resp["link_speed_mbps"], resp["channel"])
	}

	if tx := resp["tx_bytes"].(float64); tx <= 0 {
		t.Errorf("tx_bytes = %v, want positive after serving responses", tx)
	}
	if rx := resp["rx_bytes"].(float64); rx <= 0 {
		t.Errorf("rx_bytes = %v, want positive after a request body", rx)
	}
}
