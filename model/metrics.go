package model

// RiskLevel is the backend's stampede-risk tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ParseRiskLevel maps a backend level string to a tier.
// Unrecognized or empty values degrade to LOW.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s)
	}
	return RiskLow
}

// Factors holds the four stampede-risk factor scores, each in [0,1].
type Factors struct {
	Density      float64 `json:"density"`
	Velocity     float64 `json:"velocity"`
	Direction    float64 `json:"direction"`
	Acceleration float64 `json:"acceleration"`
}

// RiskAssessment is the multi-factor stampede-risk block of a metrics poll.
type RiskAssessment struct {
	Score   float64   `json:"score"`
	Level   RiskLevel `json:"level"`
	Factors Factors   `json:"factors"`
}

// MetricsSnapshot is one fully-populated /stats read. Snapshots are
// immutable and superseded wholesale by the next successful poll.
type MetricsSnapshot struct {
	PeopleCount  int            `json:"people_count"`
	AlertLevel   int            `json:"alert_level"`
	FPS          float64        `json:"fps"`
	StampedeRisk RiskAssessment `json:"stampede_risk"`
}
