package plant

import (
	"sync"
	"time"
)

// Seed values for the bus counters, matching a controller that has been
// polling its modbus sensors for a while before the first client connects.
const (
	seedTransactions = 1250
	seedErrors       = 3
)

// Options configures a Store.
type Options struct {
	// Noise drives the simulation stepper. Nil selects NewNoise(DefaultSeed).
	Noise NoiseSource

	// InputToggleChance is the per-step probability that exactly one
	// digital input flips. Zero disables input activity entirely.
	InputToggleChance float64
}

// Store holds the simulated controller state behind a single lock.
//
// Every exported method acquires the lock for its full duration and works
// on or returns copies, so callers never observe a half-applied step or
// mutate live state through a snapshot.
type Store struct {
	mu     sync.RWMutex
	noise  NoiseSource
	toggle float64

	fermenters [FermenterCount]Fermenter
	relays     [RelayCount]Relay
	inputs     [InputCount]bool
	outputs    [OutputCount]bool
	counters   Counters

	// relayIndex maps relay name to board position. Built once, then
	// read-only.
	relayIndex map[string]int

	cpuLoad float64
	cpu     ring
	net     ring
	txBytes uint64
	rxBytes uint64
	lastTx  uint64
	lastRx  uint64

	started time.Time
}

// NewStore returns a Store seeded with the controller's power-on state:
// eight vessels mid-fermentation, all relays and outputs off, a handful of
// active inputs, and non-zero bus counters.
func NewStore(opts Options) *Store {
	s := &Store{
		noise:   opts.Noise,
		toggle:  opts.InputToggleChance,
		cpuLoad: seedCPULoad,
		cpu:     newRing(historyCapacity),
		net:     newRing(historyCapacity),
		started: time.Now(),
	}
	if s.noise == nil {
		s.noise = NewNoise(DefaultSeed)
	}

	s.fermenters = seedFermenters()
	s.inputs = seedInputs
	s.counters = Counters{Transactions: seedTransactions, Errors: seedErrors}

	s.relayIndex = make(map[string]int, RelayCount)
	for i, name := range RelayNames {
		s.relays[i] = Relay{Name: name}
		s.relayIndex[name] = i
	}

	return s
}

// seedFermenters returns the power-on vessel states, in board order.
func seedFermenters() [FermenterCount]Fermenter {
	return [FermenterCount]Fermenter{
		{Temperature: 18.2, Setpoint: 18.0, Pressure: 1.1, PIDOutput: 45.0, Mode: ModeManual, PID: PIDParams{Kp: 2.0, Ki: 0.10, Kd: 1.0}},
		{Temperature: 12.0, Setpoint: 12.0, Pressure: 0.8, PIDOutput: 30.0, Mode: ModePlan, PID: PIDParams{Kp: 2.5, Ki: 0.15, Kd: 1.2}},
		{Temperature: 10.5, Setpoint: 10.0, Pressure: 1.5, PIDOutput: 60.0, Mode: ModeOff, PID: PIDParams{Kp: 1.8, Ki: 0.08, Kd: 0.9}},
		{Temperature: 20.0, Setpoint: 20.0, Pressure: 1.0, PIDOutput: 25.0, Mode: ModeManual, PID: PIDParams{Kp: 2.2, Ki: 0.12, Kd: 1.1}},
		{Temperature: 15.0, Setpoint: 15.0, Pressure: 0.5, PIDOutput: 40.0, Mode: ModePlan, PID: PIDParams{Kp: 2.0, Ki: 0.10, Kd: 1.0}},
		{Temperature: 8.0, Setpoint: 8.0, Pressure: 2.0, PIDOutput: 55.0, Mode: ModePlan, PID: PIDParams{Kp: 2.3, Ki: 0.11, Kd: 1.0}},
		{Temperature: 18.0, Setpoint: 18.0, Pressure: 1.2, PIDOutput: 35.0, Mode: ModeOff, PID: PIDParams{Kp: 2.1, Ki: 0.10, Kd: 1.0}},
		{Temperature: 14.0, Setpoint: 14.0, Pressure: 0.9, PIDOutput: 50.0, Mode: ModeManual, PID: PIDParams{Kp: 2.4, Ki: 0.13, Kd: 1.1}},
	}
}

// seedInputs is the power-on digital input pattern.
var seedInputs = [InputCount]bool{false, true, false, false, true, false, true, false}

// Snapshot returns a consistent copy of the current state without
// advancing the simulation.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Fermenters: s.fermenters,
		Relays:     s.relays,
		Inputs:     s.inputs,
		Outputs:    s.outputs,
		Counters:   s.counters,
	}
}

// Fermenter returns the state of one vessel. Vessel ids are 1-based, as
// printed on the board.
func (s *Store) Fermenter(id int) (Fermenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > FermenterCount {
		return Fermenter{}, ErrFermenterNotFound
	}

	return s.fermenters[id-1], nil
}

// ApplyFermenter updates a vessel's setpoint and/or mode. Nil fields are
// left unchanged. Returns the vessel state after the update.
func (s *Store) ApplyFermenter(id int, setpoint *float64, mode *Mode) (Fermenter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 1 || id > FermenterCount {
		return Fermenter{}, ErrFermenterNotFound
	}
	if mode != nil && !mode.Valid() {
		return Fermenter{}, ErrInvalidMode
	}

	f := &s.fermenters[id-1]
	if setpoint != nil {
		f.Setpoint = *setpoint
	}
	if mode != nil {
		f.Mode = *mode
	}

	return *f, nil
}

// ApplyPID updates a vessel's loop gains. Nil fields are left unchanged.
// Returns the vessel state after the update.
func (s *Store) ApplyPID(id int, kp, ki, kd *float64) (Fermenter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 1 || id > FermenterCount {
		return Fermenter{}, ErrFermenterNotFound
	}

	f := &s.fermenters[id-1]
	if kp != nil {
		f.PID.Kp = *kp
	}
	if ki != nil {
		f.PID.Ki = *ki
	}
	if kd != nil {
		f.PID.Kd = *kd
	}

	return *f, nil
}

// ApplyRelay switches a relay channel by name. A nil state reads the
// channel back without changing it. Returns the channel after the update.
func (s *Store) ApplyRelay(name string, state *bool) (Relay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.relayIndex[name]
	if !ok {
		return Relay{}, ErrRelayNotFound
	}

	if state != nil {
		s.relays[i].State = *state
	}

	return s.relays[i], nil
}

// ApplyOutput switches a digital output. Output ids are 1-based. A nil
// state reads the output back without changing it. Returns the output
// state after the update.
func (s *Store) ApplyOutput(id int, state *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 1 || id > OutputCount {
		return false, ErrOutputNotFound
	}

	if state != nil {
		s.outputs[id-1] = *state
	}

	return s.outputs[id-1], nil
}

// AddTraffic records bytes moved over the HTTP surface. The network
// history sampler folds the running totals into utilisation samples on
// each simulation step.
func (s *Store) AddTraffic(tx, rx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx > 0 {
		s.txBytes += uint64(tx)
	}
	if rx > 0 {
		s.rxBytes += uint64(rx)
	}
}

// TrafficTotals returns the cumulative transmitted and received byte
// counts since startup.
func (s *Store) TrafficTotals() (tx, rx uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.txBytes, s.rxBytes
}

// Uptime returns the time elapsed since the Store was created.
func (s *Store) Uptime() time.Duration {
	return time.Since(s.started)
}
