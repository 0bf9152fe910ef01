package plant

// Mode selects how a fermenter's temperature loop behaves.
type Mode string

const (
	// ModeOff disables the loop; the vessel free-runs.
	ModeOff Mode = "OFF"

	// ModeManual holds the operator-entered setpoint.
	ModeManual Mode = "MANUAL"

	// ModePlan follows the stored fermentation plan's current step.
	ModePlan Mode = "PLAN"
)

// Valid reports whether m is one of the recognised control modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeOff, ModeManual, ModePlan:
		return true
	}
	return false
}

// Board geometry. Fixed by the controller hardware being emulated.
const (
	FermenterCount = 8
	RelayCount     = 10
	InputCount     = 8
	OutputCount    = 8
)

// Wireless link characteristics reported alongside network history.
const (
	LinkSpeedMbps = 72
	WiFiChannel   = 6
)

// PIDParams holds the tuning gains for one fermenter's temperature loop.
type PIDParams struct {
	Kp float64
	Ki float64
	Kd float64
}

// Fermenter is the simulated state of a single vessel.
type Fermenter struct {
	Temperature float64
	Setpoint    float64
	Pressure    float64
	PIDOutput   float64
	Mode        Mode
	PID         PIDParams
}

// Relay is one named switching channel on the controller board.
type Relay struct {
	Name  string
	State bool
}

// Counters mirrors the controller's modbus bus statistics.
type Counters struct {
	Transactions uint64
	Errors       uint64
}

// RelayNames lists the relay channels in board order. Index 0 is the
// shared glycol chiller, followed by cooling/spunding pairs for the first
// four vessels, then the cellar heater.
var RelayNames = [RelayCount]string{
	"glycol_chiller",
	"f1_cooling",
	"f1_spunding",
	"f2_cooling",
	"f2_spunding",
	"f3_cooling",
	"f3_spunding",
	"f4_cooling",
	"f4_spunding",
	"heater",
}

// Snapshot is a consistent point-in-time copy of the whole plant state.
// All fields are value types, so assigning a Snapshot copies everything.
type Snapshot struct {
	Fermenters [FermenterCount]Fermenter
	Relays     [RelayCount]Relay
	Inputs     [InputCount]bool
	Outputs    [OutputCount]bool
	Counters   Counters
}
