package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTelemetry = errors.New("Telemetry message is invalid")

// Telemetry is one message published by a weather station. The station id
// names the city the readings belong to.
type Telemetry struct {
	StationID   string    `json:"station_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature_c,omitempty"`
	Humidity    *float64  `json:"humidity_pct,omitempty"`
	Wind        *float64  `json:"wind_kph,omitempty"`
	Pressure    *float64  `json:"pressure_hpa,omitempty"`
	Battery     *float64  `json:"battery_v,omitempty"`
	Sequence    *int      `json:"sequence,omitempty"`
}

// ParseTelemetry decodes and validates a JSON telemetry payload.
func ParseTelemetry(payload []byte) (Telemetry, error) {
	var t Telemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		return Telemetry{}, fmt.Errorf("Failed to parse telemetry: %v: %w", err, ErrInvalidTelemetry)
	}

	if err := t.Validate(); err != nil {
		return Telemetry{}, err
	}

	return t, nil
}

func (t Telemetry) Validate() error {
	if t.StationID == "" {
		return fmt.Errorf("station_id is required: %w", ErrInvalidTelemetry)
	}

	if t.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required: %w", ErrInvalidTelemetry)
	}

	if t.Humidity != nil && (*t.Humidity < 0 || *t.Humidity > 100) {
		return fmt.Errorf("humidity_pct out of range: %f (must be 0-100): %w", *t.Humidity, ErrInvalidTelemetry)
	}

	if t.Wind != nil && *t.Wind < 0 {
		return fmt.Errorf("wind_kph must not be negative: %f: %w", *t.Wind, ErrInvalidTelemetry)
	}

	if t.Pressure != nil && *t.Pressure <= 0 {
		return fmt.Errorf("pressure_hpa must be positive: %f: %w", *t.Pressure, ErrInvalidTelemetry)
	}

	if t.Temperature == nil && t.Humidity == nil && t.Wind == nil && t.Pressure == nil {
		return fmt.Errorf("at least one reading is required: %w", ErrInvalidTelemetry)
	}

	return nil
}
