package engine

import (
	"fmt"
	"strconv"

	"crowdwatch/model"
)

// Project maps the current session state to a render-ready view model. It is
// a pure function of its input: same session, same view model. The only
// wall-clock dependence is formatting incident timestamps in the viewer's
// local time zone.
func Project(s *Session, status string) model.ViewModel {
	alert := ClassifyAlert(s.Snapshot.AlertLevel)
	risk := ClassifyRisk(s.Snapshot.StampedeRisk)

	vm := model.ViewModel{
		SessionLabel: s.State.String(),
		SessionBusy:  s.State == model.StateStarting || s.State == model.StateStopping,
		Polling:      s.Polling(),

		PeopleCount:   strconv.Itoa(s.Snapshot.PeopleCount),
		AlertLabel:    alert.Label,
		AlertSeverity: alert.Severity,
		AlertMessage:  alert.Message,
		FPS:           fmt.Sprintf("%.2f", s.Snapshot.FPS),

		RiskLabel:    risk.Label,
		RiskSeverity: risk.Severity,
		RiskScore:    fmt.Sprintf("%.2f", s.Snapshot.StampedeRisk.Score),
		FactorNames:  FactorNames,
		FactorPct:    FactorPercentages(s.Snapshot.StampedeRisk.Factors),

		PeakCount: strconv.Itoa(s.Stats.PeakCount),
		PollTicks: strconv.Itoa(s.Stats.Ticks),

		StatusMessage: status,
		UploadedFile:  s.UploadedFile,
	}

	records := s.Incidents.Records()
	for _, rec := range records {
		cls := ClassifyRisk(model.RiskAssessment{Level: rec.RiskLevel})
		vm.Incidents = append(vm.Incidents, model.IncidentRow{
			When:     rec.Time().Local().Format("15:04:05"),
			Level:    string(rec.RiskLevel),
			Severity: cls.Severity,
			Count:    strconv.Itoa(rec.PeopleCount),
			Score:    fmt.Sprintf("%.2f", rec.RiskScore),
		})
	}
	if len(records) == 0 {
		if s.Incidents.Polled() {
			vm.IncidentsEmpty = "No stampede incidents recorded."
		} else {
			vm.IncidentsEmpty = "No incident data yet."
		}
	}
	return vm
}
