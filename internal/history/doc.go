// Package history records simulated plant samples to InfluxDB.
//
// The emulated controller is usually polled by dashboards that graph
// fermentation curves over days or weeks. When enabled, this package
// mirrors every poll-driven simulation step into an InfluxDB bucket so
// those graphs can be driven from real time-series storage instead of
// the controller's tiny in-memory history rings.
//
// # Measurements
//
//	fermenter   tags: fermenter, mode     fields: temp, setpoint, pressure, pid_output
//	relay       tags: relay               fields: state
//	output      tags: output              fields: state
//	modbus      (no tags)                 fields: transactions, errors
//
// # Write Semantics
//
// All writes are non-blocking: points are batched by the underlying
// client and flushed on an interval, so recording from the HTTP request
// path costs microseconds. Async write failures surface through the
// SetOnError callback.
//
// # Usage
//
//	recorder, err := history.Connect(cfg.InfluxDB)
//	if errors.Is(err, history.ErrDisabled) {
//	    recorder = nil // recording is optional
//	}
//	defer recorder.Close()
//
//	recorder.RecordSnapshot(store.Snapshot())
package history
