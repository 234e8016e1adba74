package model

// Severity tags drive styling in the rendering layer. They are ordered from
// quiet to loud; the renderer maps each tag to a style.
const (
	SeverityOK       = "ok"
	SeverityCaution  = "caution"
	SeverityWarn     = "warn"
	SeverityCrit     = "crit"
	SeverityStampede = "stampede"
)

// IncidentRow is one render-ready incident log line.
type IncidentRow struct {
	When     string // local-time formatted
	Level    string
	Severity string
	Count    string
	Score    string
}

// ViewModel is the full render-ready projection of the client state. It is
// recomputed on every update and never persisted.
type ViewModel struct {
	SessionLabel string
	SessionBusy  bool // a lifecycle transition is in flight
	Polling      bool

	PeopleCount   string
	AlertLabel    string
	AlertSeverity string
	AlertMessage  string
	FPS           string

	RiskLabel    string
	RiskSeverity string
	RiskScore    string
	FactorNames  [4]string
	FactorPct    [4]int

	Incidents      []IncidentRow
	IncidentsEmpty string // empty-state line, "" when rows are present

	PeakCount string
	PollTicks string

	StatusMessage string
	UploadedFile  string
}
