package history

import "errors"

// Sentinel errors for recorder operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, history.ErrDisabled) {
//	    // recording is switched off in config
//	}
var (
	// ErrNotConnected indicates the recorder is not connected to InfluxDB.
	ErrNotConnected = errors.New("history: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("history: connection failed")

	// ErrDisabled indicates sample recording is disabled in config.
	ErrDisabled = errors.New("history: disabled in configuration")
)
