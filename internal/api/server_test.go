package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fermworks/fermsim/internal/infrastructure/config"
	"github.com/fermworks/fermsim/internal/infrastructure/logging"
	"github.com/fermworks/fermsim/internal/plant"
	"github.com/fermworks/fermsim/internal/session"
)

const (
	testPassword = "brewmaster"
	testToken    = "fixedtoken0123456789abcdef012345"
)

// flatNoise pins every random walk at zero so response values can be
// asserted exactly against the seeded plant state.
type flatNoise struct{}

func (flatNoise) Sample(float64) float64 { return 0 }
func (flatNoise) Chance(float64) bool    { return false }
func (flatNoise) Index(int) int          { return 0 }

// testServer creates a Server over a deterministic simulation with an
// already-open operator session, so requests carrying testToken pass the
// session guard immediately.
func testServer(t *testing.T) *Server {
	t.Helper()

	store := plant.NewStore(plant.Options{Noise: flatNoise{}})
	guard := session.New(session.Options{Password: testPassword, Token: testToken})
	if _, err := guard.Login(testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:   log,
		Store:    store,
		Sessions: guard,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv
}

// authGet performs a GET carrying the active session token.
func authGet(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// authPost performs a POST carrying the active session token and a JSON body.
func authPost(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals a recorded JSON body into a generic map.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v; body: %s", err, w.Body.String())
	}
	return resp
}

// ─── Health Endpoint Tests ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeResponse(t, w)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestHealth_NoAuthRequired(t *testing.T) {
	srv := testServer(t)
	srv.sessions.Logout()
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health without session status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHealth_ContentType(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	ct := w.Header().Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
}

// ─── Middleware Tests ──────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestCORS_OnEveryResponse(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	// No Origin header at all; the device still attaches the CORS trio.
	w := authGet(router, "/api/status")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("ACAO = %q, want %q", got, "*")
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Errorf("ACAM = %q, want method list", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type" {
		t.Errorf("ACAH = %q, want header list", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	// Preflight to a protected route needs no token and carries no body.
	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.Len() != 0 {
		t.Errorf("preflight body = %q, want empty", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("ACAO = %q, want %q", got, "*")
	}
}

func TestAuth_MissingToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	protected := []string{
		"/api/status",
		"/api/sensors",
		"/api/relays",
		"/api/fermenters",
		"/api/inputs",
		"/api/outputs",
		"/api/config",
		"/api/modules",
		"/api/alarms",
		"/api/modbus/stats",
		"/api/can/status",
		"/api/cpu/history",
		"/api/network/history",
		"/api/wifi/summary",
	}

	for _, path := range protected {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: status = %d, want %d", path, w.Code, http.StatusUnauthorized)
		}
		if w.Body.Len() != 0 {
			t.Errorf("%s without token: body = %q, want empty", path, w.Body.String())
		}
	}
}

func TestAuth_WrongToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuth_BareTokenAccepted(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	// The device only checks that the header contains the token, so a bare
	// token without the Bearer prefix also passes.
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("bare token status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestNotFound(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Session Tests ─────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"password": "brewmaster"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !resp.Success {
		t.Error("expected success to be true")
	}
	if resp.Token != testToken {
		t.Errorf("token = %q, want the configured fixed token", resp.Token)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	resp := decodeResponse(t, w)
	if resp["error"] != "Invalid password" {
		t.Errorf("error = %v, want %q", resp["error"], "Invalid password")
	}
}

func TestLogin_EmptyBody(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	// Logout carries no credentials; the device leaves the route open.
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeResponse(t, w)
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}

	// The old token must stop working immediately.
	if w := authGet(router, "/api/status"); w.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	srv := testServer(t)
	srv.sessions.Logout()
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("repeat logout status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestLogin_ReopensAfterLogout(t *testing.T) {
	srv := testServer(t)
	srv.sessions.Logout()
	router := srv.buildRouter()

	body := `{"password": "brewmaster"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("re-login status = %d, want %d", w.Code, http.StatusOK)
	}

	if w := authGet(router, "/api/status"); w.Code != http.StatusOK {
		t.Errorf("status after re-login = %d, want %d", w.Code, http.StatusOK)
	}
}

// ─── Static Dashboard Tests ────────────────────────────────────────

func TestStaticDashboard(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>fermsim</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	srv := testServer(t)
	srv.webRoot = dir
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "fermsim") {
		t.Errorf("dashboard body = %q, want index contents", w.Body.String())
	}

	// Missing assets fall through to a plain 404.
	req = httptest.NewRequest(http.MethodGet, "/missing.css", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("missing asset status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── WebSocket Hub Tests ───────────────────────────────────────────

func TestHub_BroadcastToSubscribed(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{wsChannelRelay: {}},
	}
	hub.Register(client)

	hub.Broadcast(wsChannelRelay, map[string]any{"relay": "glycol_chiller", "state": true})

	select {
	case msg := <-client.send:
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if wsMsg.EventType != wsChannelRelay {
			t.Errorf("event_type = %q, want %q", wsMsg.EventType, wsChannelRelay)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for broadcast message")
	}
}

func TestHub_NoMessageForUnsubscribed(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Client subscribed to output events only
	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{wsChannelOutput: {}},
	}
	hub.Register(client)

	hub.Broadcast(wsChannelState, map[string]any{"fermenters": nil})

	select {
	case <-client.send:
		t.Error("unsubscribed client should not receive message")
	case <-time.After(100 * time.Millisecond):
		// no message received, as expected
	}
}

func TestHub_ClientCount(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	if hub.ClientCount() != 0 {
		t.Errorf("initial client count = %d, want 0", hub.ClientCount())
	}

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	hub.Register(client)

	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}
}

func TestStatePayload_Shape(t *testing.T) {
	store := plant.NewStore(plant.Options{Noise: flatNoise{}})
	payload := statePayload(store.Snapshot())

	fermenters, ok := payload["fermenters"].([]fermenterSummary)
	if !ok || len(fermenters) != plant.FermenterCount {
		t.Fatalf("fermenters = %T len %d, want %d summaries", payload["fermenters"], len(fermenters), plant.FermenterCount)
	}
	if fermenters[0].Name != "F1" || fermenters[0].Temp != 18.2 {
		t.Errorf("first vessel = %+v, want F1 at 18.2", fermenters[0])
	}

	relays, ok := payload["relays"].([]relayEntry)
	if !ok || len(relays) != plant.RelayCount {
		t.Fatalf("relays = %T len %d, want %d entries", payload["relays"], len(relays), plant.RelayCount)
	}

	modbus, ok := payload["modbus"].(map[string]uint64)
	if !ok {
		t.Fatalf("modbus = %T, want counter map", payload["modbus"])
	}
	if modbus["transactions"] != 1250 || modbus["errors"] != 3 {
		t.Errorf("counters = %v, want seeded 1250/3", modbus)
	}
}

// ─── Server Lifecycle Tests ────────────────────────────────────────

// testServerWithRealListener creates a server that actually listens on a
// specific port, with the operator session already open.
func testServerWithRealListener(t *testing.T, port int) (*Server, string) {
	t.Helper()

	store := plant.NewStore(plant.Options{Noise: flatNoise{}})
	guard := session.New(session.Options{Password: testPassword, Token: testToken})
	if _, err := guard.Login(testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: port,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:   log,
		Store:    store,
		Sessions: guard,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(func() { srv.Close() })

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Wait for server to be ready
	time.Sleep(100 * time.Millisecond)

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	return srv, addr
}

func TestServer_StartAndClose(t *testing.T) {
	store := plant.NewStore(plant.Options{Noise: flatNoise{}})
	guard := session.New(session.Options{Password: testPassword, Token: testToken})
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	port := 19080

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: port,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:   log,
		Store:    store,
		Sessions: guard,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	addr := fmt.Sprintf("127.0.0.1:%d", port)

	resp, err := http.Get("http://" + addr + "/api/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("health check status = %d, want 200", resp.StatusCode)
	}

	cancel()
	if err := srv.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	// Verify server stopped by trying to connect (should fail)
	time.Sleep(100 * time.Millisecond)
	_, err = http.Get("http://" + addr + "/api/health")
	if err == nil {
		t.Error("server still responding after Close()")
	}
}

func TestServer_HealthCheck(t *testing.T) {
	srv := testServer(t)

	// The server struct exists but is not listening, so the check reports
	// an error.
	if err := srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck on unstarted server should fail")
	}
}

// ─── WebSocket Integration Tests ───────────────────────────────────

// connectWebSocket dials the event socket with the session token in the
// query string, as the dashboard does.
func connectWebSocket(t *testing.T, addr string) *websocket.Conn {
	t.Helper()

	wsURL := "ws://" + addr + "/ws?token=" + testToken
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket connect failed: %v", err)
	}
	return ws
}

func TestWebSocket_SubscribeAndBroadcast(t *testing.T) {
	srv, addr := testServerWithRealListener(t, 19081)

	ws := connectWebSocket(t, addr)
	defer ws.Close()

	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{wsChannelRelay}},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read subscribe response: %v", err)
	}

	if resp.Type != WSTypeResponse {
		t.Errorf("response type = %s, want %s", resp.Type, WSTypeResponse)
	}
	if resp.ID != "sub-1" {
		t.Errorf("response ID = %s, want sub-1", resp.ID)
	}

	srv.hub.Broadcast(wsChannelRelay, map[string]any{"relay": "heater", "state": true})

	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}

	if resp.Type != WSTypeEvent {
		t.Errorf("broadcast type = %s, want event", resp.Type)
	}
	if resp.EventType != wsChannelRelay {
		t.Errorf("broadcast event_type = %s, want %s", resp.EventType, wsChannelRelay)
	}
}

func TestWebSocket_StateEventOnStatusPoll(t *testing.T) {
	_, addr := testServerWithRealListener(t, 19082)

	ws := connectWebSocket(t, addr)
	defer ws.Close()

	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{wsChannelState}},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read subscribe response: %v", err)
	}

	// A status poll over plain HTTP must fan out on the state channel.
	req, _ := http.NewRequest(http.MethodGet, "http://"+addr+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	httpResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("status poll failed: %v", err)
	}
	httpResp.Body.Close()

	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read state event: %v", err)
	}

	if resp.EventType != wsChannelState {
		t.Errorf("event_type = %s, want %s", resp.EventType, wsChannelState)
	}

	payload, ok := resp.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload = %T, want object", resp.Payload)
	}
	fermenters, ok := payload["fermenters"].([]any)
	if !ok || len(fermenters) != plant.FermenterCount {
		t.Errorf("payload fermenters = %v, want %d entries", payload["fermenters"], plant.FermenterCount)
	}
}

func TestWebSocket_Ping(t *testing.T) {
	_, addr := testServerWithRealListener(t, 19083)

	ws := connectWebSocket(t, addr)
	defer ws.Close()

	if err := ws.WriteJSON(WSMessage{
		Type: WSTypePing,
		ID:   "ping-1",
	}); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read pong: %v", err)
	}

	if resp.Type != WSTypePong {
		t.Errorf("response type = %s, want pong", resp.Type)
	}
	if resp.ID != "ping-1" {
		t.Errorf("response ID = %s, want ping-1", resp.ID)
	}
}

func TestWebSocket_InvalidMessage(t *testing.T) {
	_, addr := testServerWithRealListener(t, 19084)

	ws := connectWebSocket(t, addr)
	defer ws.Close()

	if err := ws.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write invalid message: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read error response: %v", err)
	}

	if resp.Type != WSTypeError {
		t.Errorf("response type = %s, want error", resp.Type)
	}
}

func TestWebSocket_NoToken(t *testing.T) {
	_, addr := testServerWithRealListener(t, 19085)

	wsURL := "ws://" + addr + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected error connecting without token")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestWebSocket_InvalidToken(t *testing.T) {
	_, addr := testServerWithRealListener(t, 19086)

	wsURL := "ws://" + addr + "/ws?token=invalid-token"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected error connecting with invalid token")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestWebSocket_HeaderAuth(t *testing.T) {
	_, addr := testServerWithRealListener(t, 19087)

	// Non-browser clients can carry the token in the Authorization header
	// instead of the query string.
	header := http.Header{}
	header.Set("Authorization", "Bearer "+testToken)
	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", header)
	if err != nil {
		t.Fatalf("websocket dial with header failed: %v", err)
	}
	ws.Close()
}
