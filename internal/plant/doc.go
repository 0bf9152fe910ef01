// Package plant simulates the state of a fermentation controller board.
//
// The package owns everything the real controller measures or switches:
// eight fermentation vessels with temperature, pressure and PID loop state,
// ten named relay channels, the digital input and output banks, and the
// modbus bus counters. All of it lives behind a single Store, and the
// simulation advances only when the REST layer asks for a poll-driven
// step, so the same request sequence against the same noise seed replays
// the same trajectory.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────┐
//	│                          Store                           │
//	│                                                          │
//	│  ┌───────────────┐   ┌───────────────┐   ┌────────────┐  │
//	│  │  State + ops  │   │    Stepper    │   │  History   │  │
//	│  │  (store.go)   │   │ (stepper.go)  │   │(history.go)│  │
//	│  │               │   │               │   │            │  │
//	│  │ • Seed state  │   │ • Temp drift  │   │ • CPU ring │  │
//	│  │ • Apply ops   │   │ • PID output  │   │ • Net ring │  │
//	│  │ • Snapshots   │   │ • Input flips │   │ • Traffic  │  │
//	│  └───────────────┘   └───────────────┘   └────────────┘  │
//	└──────────────────────────────────────────────────────────┘
//	                            │
//	                            ▼
//	                 ┌──────────────────────────┐
//	                 │    REST API handlers     │
//	                 │  • GET  /api/status      │
//	                 │  • POST /api/relay/{name}│
//	                 └──────────────────────────┘
//
// # Key Types
//
//   - Store: the single source of truth, safe for concurrent use
//   - Snapshot: a consistent point-in-time copy handed to renderers
//   - Fermenter: one vessel's temperature, pressure and PID loop state
//   - NoiseSource: the injectable randomness behind the stepper
//
// # Usage
//
//	store := plant.NewStore(plant.Options{
//	    Noise:             plant.NewNoise(42),
//	    InputToggleChance: 0.05,
//	})
//
//	// Advance one tick and render.
//	snap := store.Step()
//	fmt.Println(snap.Fermenters[0].Temperature)
//
//	// Apply an operator change.
//	sp := 19.5
//	f, err := store.ApplyFermenter(1, &sp, nil)
//
// # Determinism
//
// All randomness flows through a NoiseSource. The default source is
// math/rand seeded with DefaultSeed, so a fresh process replays the same
// state sequence for the same request order. Tests inject their own source
// to pin exact values.
//
// # Thread Safety
//
// The Store is safe for concurrent use. Every method holds the state lock
// for its full duration and returns copies, never references into live
// state.
package plant
