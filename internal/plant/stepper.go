package plant

import "math"

// Physics constants for one simulation step. Tuned so that a vessel eases
// toward its setpoint over a few hundred polls while staying visibly noisy
// on a dashboard.
const (
	tempApproachRate  = 0.01
	tempNoiseHalf     = 0.02
	pressureNoiseHalf = 0.01
	pidBase           = 50.0
	pidGain           = 20.0
	pidNoiseHalf      = 2.0
	pidOutputMin      = 0.0
	pidOutputMax      = 100.0
)

// Step advances the simulation one tick and returns the resulting state.
//
// Each vessel's temperature drifts a fraction of the way toward its
// setpoint, pressure takes a random walk bounded below at zero, and the
// PID output tracks the control error around a 50% base. With the
// configured probability, exactly one digital input flips. The CPU and
// network history rings each gain one sample.
func (s *Store) Step() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stepLocked()
	return s.snapshotLocked()
}

// StepStatus advances the simulation like Step and additionally counts
// one modbus transaction. The returned snapshot carries the transaction
// count from before the increment, matching the controller's
// render-then-count order: the first status poll after power-on reports
// the seed value.
func (s *Store) StepStatus() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stepLocked()
	snap := s.snapshotLocked()
	s.counters.Transactions++
	return snap
}

func (s *Store) stepLocked() {
	for i := range s.fermenters {
		f := &s.fermenters[i]
		err := f.Setpoint - f.Temperature

		f.Temperature += err*tempApproachRate + s.noise.Sample(tempNoiseHalf)
		f.Pressure = math.Max(0, f.Pressure+s.noise.Sample(pressureNoiseHalf))
		f.PIDOutput = clamp(pidBase+err*pidGain+s.noise.Sample(pidNoiseHalf), pidOutputMin, pidOutputMax)
	}

	if s.toggle > 0 && s.noise.Chance(s.toggle) {
		i := s.noise.Index(InputCount)
		s.inputs[i] = !s.inputs[i]
	}

	s.recordHistoryLocked()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
