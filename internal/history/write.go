package history

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fermworks/fermsim/internal/plant"
)

// RecordFermenter writes one vessel's loop state as a point in the
// "fermenter" measurement. The write is non-blocking; data is batched
// and sent asynchronously.
//
// Parameters:
//   - id: Vessel id, 1-based as printed on the board
//   - f: The vessel state to record
func (r *Recorder) RecordFermenter(id int, f plant.Fermenter) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fermenter",
		map[string]string{
			"fermenter": strconv.Itoa(id),
			"mode":      string(f.Mode),
		},
		map[string]interface{}{
			"temp":       f.Temperature,
			"setpoint":   f.Setpoint,
			"pressure":   f.Pressure,
			"pid_output": f.PIDOutput,
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}

// RecordRelay writes a relay switching event to the "relay" measurement.
func (r *Recorder) RecordRelay(name string, state bool) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(
		"relay",
		map[string]string{
			"relay": name,
		},
		map[string]interface{}{
			"state": state,
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}

// RecordOutput writes a digital output switching event to the "output"
// measurement.
func (r *Recorder) RecordOutput(id int, state bool) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(
		"output",
		map[string]string{
			"output": strconv.Itoa(id),
		},
		map[string]interface{}{
			"state": state,
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}

// RecordSnapshot writes every vessel plus the bus counters from one
// consistent snapshot. Called after each status poll so the stored
// series advances in step with what clients saw.
func (r *Recorder) RecordSnapshot(snap plant.Snapshot) {
	if !r.IsConnected() {
		return
	}

	for i, f := range snap.Fermenters {
		r.RecordFermenter(i+1, f)
	}

	point := write.NewPoint(
		"modbus",
		map[string]string{},
		map[string]interface{}{
			"transactions": int64(snap.Counters.Transactions),
			"errors":       int64(snap.Counters.Errors),
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (r *Recorder) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	r.writeAPI.WritePoint(point)
}
