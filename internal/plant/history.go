package plant

import "math"

// History sampling parameters reported by the controller. The interval is
// nominal: the simulation records one sample per poll-driven step rather
// than on a wall-clock timer, so a dashboard polling every 15 seconds
// sees the advertised cadence.
const (
	historyCapacity    = 120
	HistoryIntervalSec = 15
)

// CPU load random walk bounds.
const (
	seedCPULoad  = 45.0
	cpuNoiseHalf = 3.0
	cpuLoadMin   = 5.0
	cpuLoadMax   = 95.0
)

// CPUHistory returns the recorded CPU load samples, oldest first.
func (s *Store) CPUHistory() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cpu.samples()
}

// NetworkHistory returns the recorded wireless utilisation samples as
// percentages of link capacity, oldest first.
func (s *Store) NetworkHistory() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.net.samples()
}

// recordHistoryLocked appends one sample to each history ring: a bounded
// random walk for CPU load, and the share of link capacity consumed by
// HTTP traffic since the previous step for the network ring.
func (s *Store) recordHistoryLocked() {
	s.cpuLoad = clamp(s.cpuLoad+s.noise.Sample(cpuNoiseHalf), cpuLoadMin, cpuLoadMax)
	s.cpu.push(int(math.Round(s.cpuLoad)))

	delta := (s.txBytes - s.lastTx) + (s.rxBytes - s.lastRx)
	s.lastTx, s.lastRx = s.txBytes, s.rxBytes
	s.net.push(utilisationPercent(delta))
}

// utilisationPercent converts bytes moved during one sample window into a
// percentage of the reported wireless link capacity, capped at 100.
func utilisationPercent(bytes uint64) int {
	capacityBits := float64(LinkSpeedMbps) * 1e6 * HistoryIntervalSec
	pct := float64(bytes) * 8 * 100 / capacityBits
	if pct > 100 {
		return 100
	}
	return int(math.Round(pct))
}

// ring is a fixed-capacity sample buffer that discards the oldest entry
// once full.
type ring struct {
	buf   []int
	start int
	n     int
}

func newRing(capacity int) ring {
	return ring{buf: make([]int, capacity)}
}

func (r *ring) push(v int) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// samples returns the buffered values oldest-first.
func (r *ring) samples() []int {
	out := make([]int, r.n)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}
