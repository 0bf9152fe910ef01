package plant

import (
	"math"
	"testing"
)

// stubNoise returns fixed values from every method, pinning the stepper
// so tests can assert exact arithmetic.
type stubNoise struct {
	sample float64
	chance bool
	index  int
}

func (n *stubNoise) Sample(half float64) float64 { return n.sample }
func (n *stubNoise) Chance(p float64) bool       { return n.chance }
func (n *stubNoise) Index(count int) int         { return n.index }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ─── Stepper Physics Tests ─────────────────────────────────────────

func TestStep_TemperatureDriftsTowardSetpoint(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	snap := s.Step()

	// Fermenter 3 starts above setpoint: temp 10.5, setpoint 10.0.
	// error = -0.5, so temp moves down by 0.005 and the PID output
	// lands at 50 + (-0.5 * 20) = 40.
	f3 := snap.Fermenters[2]
	if !almostEqual(f3.Temperature, 10.495) {
		t.Errorf("Temperature = %v, want 10.495", f3.Temperature)
	}
	if !almostEqual(f3.PIDOutput, 40.0) {
		t.Errorf("PIDOutput = %v, want 40.0", f3.PIDOutput)
	}
	if !almostEqual(f3.Pressure, 1.5) {
		t.Errorf("Pressure = %v, want unchanged 1.5", f3.Pressure)
	}
}

func TestStep_AtSetpointHoldsSteady(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	snap := s.Step()

	// Fermenter 2 sits exactly on setpoint, so with zero noise nothing
	// moves and the PID output settles at its 50% base.
	f2 := snap.Fermenters[1]
	if !almostEqual(f2.Temperature, 12.0) {
		t.Errorf("Temperature = %v, want 12.0", f2.Temperature)
	}
	if !almostEqual(f2.PIDOutput, 50.0) {
		t.Errorf("PIDOutput = %v, want 50.0", f2.PIDOutput)
	}
}

func TestStep_PIDOutputClampedHigh(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{sample: 1000}})

	snap := s.Step()

	for i, f := range snap.Fermenters {
		if f.PIDOutput != 100.0 {
			t.Errorf("fermenter %d PIDOutput = %v, want clamped 100.0", i+1, f.PIDOutput)
		}
	}
}

func TestStep_PressureAndPIDClampedLow(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{sample: -1000}})

	snap := s.Step()

	for i, f := range snap.Fermenters {
		if f.Pressure != 0 {
			t.Errorf("fermenter %d Pressure = %v, want floored 0", i+1, f.Pressure)
		}
		if f.PIDOutput != 0 {
			t.Errorf("fermenter %d PIDOutput = %v, want clamped 0", i+1, f.PIDOutput)
		}
	}
}

func TestStep_ConvergesOverManySteps(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	var snap Snapshot
	for i := 0; i < 500; i++ {
		snap = s.Step()
	}

	// Fermenter 3's 0.5 degree error decays by 1% per step; after 500
	// steps it is well under a hundredth of a degree.
	f3 := snap.Fermenters[2]
	if math.Abs(f3.Temperature-f3.Setpoint) > 0.01 {
		t.Errorf("Temperature = %v after 500 steps, want within 0.01 of %v", f3.Temperature, f3.Setpoint)
	}
}

// ─── Input Toggle Tests ────────────────────────────────────────────

func TestStep_InputToggleFlipsExactlyOne(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{chance: true, index: 3}, InputToggleChance: 0.05})

	before := s.Snapshot().Inputs
	after := s.Step().Inputs

	for i := range after {
		want := before[i]
		if i == 3 {
			want = !want
		}
		if after[i] != want {
			t.Errorf("input %d = %v, want %v", i+1, after[i], want)
		}
	}

	// A second step flips the same input back.
	again := s.Step().Inputs
	if again != before {
		t.Errorf("inputs = %v after second toggle, want %v", again, before)
	}
}

func TestStep_NoToggleWhenChanceZero(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{chance: true, index: 3}})

	before := s.Snapshot().Inputs
	for i := 0; i < 20; i++ {
		s.Step()
	}

	if got := s.Snapshot().Inputs; got != before {
		t.Errorf("inputs = %v with toggling disabled, want unchanged %v", got, before)
	}
}

// ─── Transaction Counting Tests ────────────────────────────────────

func TestStepStatus_RenderThenCount(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	if got := s.StepStatus().Counters.Transactions; got != 1250 {
		t.Errorf("first poll Transactions = %d, want seed 1250", got)
	}
	if got := s.StepStatus().Counters.Transactions; got != 1251 {
		t.Errorf("second poll Transactions = %d, want 1251", got)
	}
	if got := s.Snapshot().Counters.Transactions; got != 1252 {
		t.Errorf("stored Transactions = %d after two polls, want 1252", got)
	}
}

func TestStep_DoesNotCountTransactions(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	for i := 0; i < 5; i++ {
		s.Step()
	}

	if got := s.Snapshot().Counters.Transactions; got != 1250 {
		t.Errorf("Transactions = %d after plain steps, want 1250", got)
	}
}

// ─── Determinism Tests ─────────────────────────────────────────────

func TestStep_SameSeedSameTrajectory(t *testing.T) {
	a := NewStore(Options{Noise: NewNoise(7), InputToggleChance: 0.5})
	b := NewStore(Options{Noise: NewNoise(7), InputToggleChance: 0.5})

	var snapA, snapB Snapshot
	for i := 0; i < 25; i++ {
		snapA = a.Step()
		snapB = b.Step()
	}

	if snapA != snapB {
		t.Error("identical seeds diverged after 25 steps")
	}
}

// ─── History Ring Tests ────────────────────────────────────────────

func TestCPUHistory_OneSamplePerStep(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	s.Step()
	s.StepStatus()
	s.Step()

	samples := s.CPUHistory()
	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}
	for i, v := range samples {
		if v != 45 {
			t.Errorf("sample %d = %d, want 45 with zero noise", i, v)
		}
	}
}

func TestCPUHistory_RingDropsOldest(t *testing.T) {
	// With a constant +1 walk the load climbs from 45 and saturates at
	// 95, so surviving samples identify which pushes were dropped.
	s := NewStore(Options{Noise: &stubNoise{sample: 1.0}})

	for i := 0; i < 130; i++ {
		s.Step()
	}

	samples := s.CPUHistory()
	if len(samples) != 120 {
		t.Fatalf("len(samples) = %d, want capacity 120", len(samples))
	}
	if samples[0] != 56 {
		t.Errorf("oldest sample = %d, want 56 (push 11 of 130)", samples[0])
	}
	if samples[len(samples)-1] != 95 {
		t.Errorf("newest sample = %d, want ceiling 95", samples[len(samples)-1])
	}
}

func TestNetworkHistory_TracksTraffic(t *testing.T) {
	s := NewStore(Options{Noise: &stubNoise{}})

	// 13.5 MB in one window is 108 Mbit against a 72 Mbps link over a
	// 15 s nominal interval: exactly 10% utilisation.
	s.AddTraffic(13_500_000, 0)
	s.Step()
	s.Step()

	samples := s.NetworkHistory()
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0] != 10 {
		t.Errorf("busy sample = %d, want 10", samples[0])
	}
	if samples[1] != 0 {
		t.Errorf("idle sample = %d, want 0", samples[1])
	}
}

func TestUtilisationPercent_CapsAtFull(t *testing.T) {
	if got := utilisationPercent(2_000_000_000); got != 100 {
		t.Errorf("utilisationPercent(2e9) = %d, want 100", got)
	}
	if got := utilisationPercent(0); got != 0 {
		t.Errorf("utilisationPercent(0) = %d, want 0", got)
	}
}
