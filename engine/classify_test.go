package engine

import (
	"testing"

	"crowdwatch/model"
)

func TestClassifyAlert(t *testing.T) {
	cases := []struct {
		name     string
		level    int
		label    string
		severity string
	}{
		{"normal", 0, "Normal", model.SeverityOK},
		{"caution", 1, "Caution", model.SeverityCaution},
		{"warning", 2, "Warning", model.SeverityWarn},
		{"critical", 3, "Critical", model.SeverityCrit},
		{"stampede", 4, "Stampede Risk", model.SeverityStampede},

		// Anything outside 0..4 degrades to Normal
		{"negative", -1, "Normal", model.SeverityOK},
		{"above_range", 5, "Normal", model.SeverityOK},
		{"garbage", 999, "Normal", model.SeverityOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyAlert(c.level)
			if got.Label != c.label {
				t.Fatalf("level %d: label = %q, want %q", c.level, got.Label, c.label)
			}
			if got.Severity != c.severity {
				t.Fatalf("level %d: severity = %q, want %q", c.level, got.Severity, c.severity)
			}
			if got.Message == "" {
				t.Fatalf("level %d: empty operator message", c.level)
			}
		})
	}
}

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		name     string
		level    model.RiskLevel
		label    string
		severity string
	}{
		{"low", model.RiskLow, "LOW", model.SeverityOK},
		{"medium", model.RiskMedium, "MEDIUM", model.SeverityWarn},
		{"high", model.RiskHigh, "HIGH", model.SeverityCrit},
		{"empty_defaults_low", model.RiskLevel(""), "LOW", model.SeverityOK},
		{"unknown_defaults_low", model.RiskLevel("SEVERE"), "LOW", model.SeverityOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyRisk(model.RiskAssessment{Level: c.level})
			if got.Label != c.label || got.Severity != c.severity {
				t.Fatalf("level %q: got (%q, %q), want (%q, %q)",
					c.level, got.Label, got.Severity, c.label, c.severity)
			}
		})
	}
}

func TestFactorPercentages(t *testing.T) {
	cases := []struct {
		name    string
		factors model.Factors
		want    [4]int
	}{
		{"zero", model.Factors{}, [4]int{0, 0, 0, 0}},
		{"typical", model.Factors{Density: 0.5, Velocity: 0.2}, [4]int{50, 20, 0, 0}},
		{"rounding", model.Factors{Density: 0.345, Velocity: 0.996}, [4]int{35, 100, 0, 0}},
		{"clamp_high", model.Factors{Density: 1.5, Acceleration: 2.0}, [4]int{100, 0, 0, 100}},
		{"clamp_low", model.Factors{Velocity: -0.2, Direction: -1}, [4]int{0, 0, 0, 0}},
		{"full", model.Factors{Density: 1, Velocity: 1, Direction: 1, Acceleration: 1}, [4]int{100, 100, 100, 100}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FactorPercentages(c.factors)
			if got != c.want {
				t.Fatalf("FactorPercentages(%+v) = %v, want %v", c.factors, got, c.want)
			}
		})
	}
}

func TestParseRiskLevel(t *testing.T) {
	if got := model.ParseRiskLevel("HIGH"); got != model.RiskHigh {
		t.Fatalf("ParseRiskLevel(HIGH) = %q", got)
	}
	if got := model.ParseRiskLevel("extreme"); got != model.RiskLow {
		t.Fatalf("ParseRiskLevel(extreme) = %q, want LOW", got)
	}
	if got := model.ParseRiskLevel(""); got != model.RiskLow {
		t.Fatalf("ParseRiskLevel(empty) = %q, want LOW", got)
	}
}
