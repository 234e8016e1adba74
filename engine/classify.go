package engine

import (
	"math"

	"crowdwatch/model"
)

// Classification is a display-ready label for an alert or risk tier.
type Classification struct {
	Label    string
	Severity string
	Message  string
}

// ClassifyAlert maps a backend alert level to its label and severity tag.
// Levels outside 0..4 degrade to Normal rather than erroring; the poller
// must survive whatever integer the backend sends.
func ClassifyAlert(level int) Classification {
	switch level {
	case 1:
		return Classification{Label: "Caution", Severity: model.SeverityCaution, Message: "CAUTION: Moderate crowd detected."}
	case 2:
		return Classification{Label: "Warning", Severity: model.SeverityWarn, Message: "WARNING: Large crowd detected."}
	case 3:
		return Classification{Label: "Critical", Severity: model.SeverityCrit, Message: "CRITICAL: Overcrowding detected!"}
	case 4:
		return Classification{Label: "Stampede Risk", Severity: model.SeverityStampede, Message: "STAMPEDE RISK: Evacuate and disperse the crowd!"}
	default:
		return Classification{Label: "Normal", Severity: model.SeverityOK, Message: "System operating normally."}
	}
}

// ClassifyRisk maps a stampede-risk tier to its label and severity tag.
// Unrecognized levels were already degraded to LOW at the gateway boundary,
// but the mapping is total anyway.
func ClassifyRisk(r model.RiskAssessment) Classification {
	switch r.Level {
	case model.RiskHigh:
		return Classification{Label: "HIGH", Severity: model.SeverityCrit, Message: "Stampede risk HIGH."}
	case model.RiskMedium:
		return Classification{Label: "MEDIUM", Severity: model.SeverityWarn, Message: "Stampede risk elevated."}
	default:
		return Classification{Label: "LOW", Severity: model.SeverityOK, Message: "Stampede risk low."}
	}
}

// FactorNames orders the four risk factors for display.
var FactorNames = [4]string{"Density", "Velocity", "Direction", "Acceleration"}

// FactorPercentages converts the factor scores to whole percentages in the
// FactorNames order, clamping each score to [0,1] before rounding.
func FactorPercentages(f model.Factors) [4]int {
	return [4]int{
		pct(f.Density),
		pct(f.Velocity),
		pct(f.Direction),
		pct(f.Acceleration),
	}
}

func pct(v float64) int {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Round(v * 100))
}
