// Package telemetry publishes simulator state to an MQTT broker.
//
// The emulated controller pushes vessel state and switching events onto a
// message bus alongside its REST surface; fermsim reproduces that with an
// optional MQTT publisher. Brewery dashboards, batch loggers and alert
// services subscribe to the fermsim/# hierarchy without polling the HTTP
// API.
//
// # Topic Hierarchy
//
//	fermsim/state/fermenter/{id}   retained vessel state, refreshed on status polls
//	fermsim/event/relay/{name}     relay switching events
//	fermsim/event/output/{id}      digital output switching events
//	fermsim/system/status          online/offline status with LWT
//
// # Offline Detection
//
// The client registers a Last Will and Testament on fermsim/system/status.
// If the simulator crashes or loses its network, the broker publishes the
// retained offline status on its behalf; a graceful shutdown publishes a
// distinct reason so consumers can tell the two apart.
//
// # Usage
//
//	client, err := telemetry.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.PublishFermenterState(1, fermenter)
//	client.PublishRelayEvent("heater", true)
//
// # Security Considerations
//
//   - TLS is available for non-local brokers (cfg.Broker.TLS=true)
//   - Anonymous access is only for local development
//
// # Performance Characteristics
//
//   - Publish latency: <10ms for QoS 1 to a local broker
//   - Reconnect: exponential backoff 1s-60s
package telemetry
