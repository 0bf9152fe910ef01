package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
)

// decodeBody parses a JSON request body into dst. Update bodies on this API
// are permissive: a missing, empty, or malformed body is treated as a body
// with no recognised fields, never as an error. Callers use pointer fields
// so that absent means unchanged.
func decodeBody(r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return
	}
	//nolint:errcheck // Malformed JSON leaves dst zero-valued, which is the contract
	json.Unmarshal(data, dst)
}

// roundTo rounds v to the given number of decimal places. The device
// renders each field at a fixed precision; rounding at the boundary keeps
// the JSON numbers identical to the firmware's formatted output.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
