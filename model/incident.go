package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// IncidentLogCap bounds the visible incident log.
const IncidentLogCap = 10

// IncidentRecord is one backend-recorded stampede incident. The feed encodes
// records as positional rows: [timestamp, risk_level, people_count,
// risk_score, factors]. The trailing factors blob is carried opaquely and
// not displayed.
type IncidentRecord struct {
	Timestamp   int64     // epoch millis
	RiskLevel   RiskLevel
	PeopleCount int
	RiskScore   float64
	Factors     json.RawMessage
}

// UnmarshalJSON decodes the positional row form. Short rows are tolerated
// with zero values so one truncated record cannot poison a whole poll.
func (r *IncidentRecord) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("incident row is not an array: %w", err)
	}

	if len(row) > 0 {
		var ts float64
		if err := json.Unmarshal(row[0], &ts); err != nil {
			return fmt.Errorf("incident timestamp: %w", err)
		}
		r.Timestamp = int64(ts)
	}
	if len(row) > 1 {
		var level string
		_ = json.Unmarshal(row[1], &level)
		r.RiskLevel = ParseRiskLevel(level)
	} else {
		r.RiskLevel = RiskLow
	}
	if len(row) > 2 {
		var count float64
		_ = json.Unmarshal(row[2], &count)
		r.PeopleCount = int(count)
	}
	if len(row) > 3 {
		_ = json.Unmarshal(row[3], &r.RiskScore)
	}
	if len(row) > 4 {
		r.Factors = append(json.RawMessage(nil), row[4]...)
	}
	return nil
}

// MarshalJSON re-encodes the positional row form, round-tripping what the
// backend sent.
func (r IncidentRecord) MarshalJSON() ([]byte, error) {
	row := []interface{}{r.Timestamp, r.RiskLevel, r.PeopleCount, r.RiskScore}
	if len(r.Factors) > 0 {
		row = append(row, r.Factors)
	}
	return json.Marshal(row)
}

// Time returns the incident timestamp as a time.Time.
func (r IncidentRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
