// Package api implements the HTTP REST API and WebSocket server for fermsim.
//
// This package provides:
//   - The emulated controller's fixed route table under /api (status, sensors,
//     relays, fermenters, PID, digital I/O, diagnostics)
//   - Session-token authentication via the session guard
//   - WebSocket hub for live state and actuation-event broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body size limit)
//   - Static file serving for the bundled dashboard
//
// # Architecture
//
// The server sits between the web dashboard and the simulated plant. Poll
// endpoints (/api/status, /api/sensors, /api/can/status) advance the
// simulation one tick before rendering; mutation endpoints write through the
// plant store and echo the post-mutation values. There is no background
// timer: the simulation is stimulated entirely by polling, which keeps
// trajectories reproducible for a given seed and request sequence.
//
// # Wire Contract
//
// The JSON shapes and status codes reproduce the hardware controller's
// admin API exactly, including its quirks: CORS headers on every response,
// 401 with an empty body on session failure, 404 for out-of-range fermenter
// and PID ids against 400 for out-of-range output ids, and success echoes
// for unknown relay names. Front-end code written against the device must
// run unmodified against this server.
//
// # Security
//
// Authentication is the device's single-password, single-session scheme.
// It is a test-rig contract, not production auth; see the session package
// for the matching semantics.
package api
