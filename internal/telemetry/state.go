package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fermworks/fermsim/internal/plant"
)

// FermenterState is the payload published to fermsim/state/fermenter/{id}.
type FermenterState struct {
	ID          int     `json:"id"`
	Temperature float64 `json:"temp"`
	Setpoint    float64 `json:"setpoint"`
	Pressure    float64 `json:"pressure"`
	PIDOutput   float64 `json:"pid_output"`
	Mode        string  `json:"mode"`
	Timestamp   string  `json:"timestamp"`
}

// RelayEvent is the payload published to fermsim/event/relay/{name}.
type RelayEvent struct {
	Relay     string `json:"relay"`
	State     bool   `json:"state"`
	Timestamp string `json:"timestamp"`
}

// OutputEvent is the payload published to fermsim/event/output/{id}.
type OutputEvent struct {
	Output    int    `json:"output"`
	State     bool   `json:"state"`
	Timestamp string `json:"timestamp"`
}

// PublishFermenterState publishes one vessel's state, retained, so a
// subscriber connecting between polls still sees the latest values.
func (c *Client) PublishFermenterState(id int, f plant.Fermenter) error {
	state := FermenterState{
		ID:          id,
		Temperature: f.Temperature,
		Setpoint:    f.Setpoint,
		Pressure:    f.Pressure,
		PIDOutput:   f.PIDOutput,
		Mode:        string(f.Mode),
		Timestamp:   timestamp(),
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal fermenter state: %w", err)
	}

	return c.PublishRetained(Topics{}.FermenterState(id), payload)
}

// PublishRelayEvent publishes a relay switching event.
func (c *Client) PublishRelayEvent(name string, state bool) error {
	event := RelayEvent{
		Relay:     name,
		State:     state,
		Timestamp: timestamp(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal relay event: %w", err)
	}

	return c.Publish(Topics{}.RelayEvent(name), payload, byte(c.cfg.QoS), false)
}

// PublishOutputEvent publishes a digital output switching event.
func (c *Client) PublishOutputEvent(id int, state bool) error {
	event := OutputEvent{
		Output:    id,
		State:     state,
		Timestamp: timestamp(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal output event: %w", err)
	}

	return c.Publish(Topics{}.OutputEvent(id), payload, byte(c.cfg.QoS), false)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
