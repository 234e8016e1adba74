package engine

import "crowdwatch/model"

// Session is the single owner of the client-side session state: lifecycle
// state, the latest metrics snapshot, the incident log, and the poll
// generation. All mutation happens through its methods on one goroutine
// (the bubbletea update loop), so no locking is needed.
//
// The generation counter ties every armed poll timer and in-flight gateway
// response to the session that issued it. Stop bumps the generation, which
// simultaneously disarms both recurring polls (their next tick carries a
// stale generation) and discards any response still in flight.
type Session struct {
	State      model.SessionState
	Generation int

	Snapshot  model.MetricsSnapshot
	Incidents *Reconciler
	Stats     model.SessionStats

	// UploadedFile is the backend-assigned name of the last uploaded video.
	UploadedFile string

	prev model.SessionState
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{
		State:     model.StateIdle,
		Snapshot:  zeroSnapshot(),
		Incidents: NewReconciler(),
	}
}

func zeroSnapshot() model.MetricsSnapshot {
	return model.MetricsSnapshot{
		StampedeRisk: model.RiskAssessment{Level: model.RiskLow},
	}
}

// CanStart reports whether a camera start may be issued. Starting is
// disallowed while a session is live or a transition is in flight, so a
// repeated start never issues a duplicate gateway call.
func (s *Session) CanStart() bool { return s.State == model.StateIdle }

// CanUpload reports whether a video upload may be issued. Re-uploading over
// a pending (not yet processing) upload is allowed.
func (s *Session) CanUpload() bool {
	return s.State == model.StateIdle || s.State == model.StateUploaded
}

// CanProcess reports whether processing of the uploaded video may begin.
func (s *Session) CanProcess() bool { return s.State == model.StateUploaded }

// CanStop reports whether the session can be stopped.
func (s *Session) CanStop() bool { return s.State.Active() }

// Polling reports whether the poll pair should be armed.
func (s *Session) Polling() bool { return s.State.Active() }

// Current reports whether a generation tag belongs to the live session.
// Ticks and responses carrying an older generation are dropped.
func (s *Session) Current(gen int) bool { return gen == s.Generation }

// BeginStart marks a camera start in flight.
func (s *Session) BeginStart() {
	s.prev = s.State
	s.State = model.StateStarting
}

// CompleteStart applies the start result. On success the session goes live
// and the caller arms both pollers; on failure it falls back to Idle.
func (s *Session) CompleteStart(err error) (arm bool) {
	if err != nil {
		s.State = s.prev
		return false
	}
	s.State = model.StateLiveCamera
	return true
}

// SetUploaded records a successful upload. Pollers stay disarmed until
// processing begins.
func (s *Session) SetUploaded(filename string) {
	s.State = model.StateUploaded
	s.UploadedFile = filename
}

// BeginProcess marks a process-video start in flight.
func (s *Session) BeginProcess() {
	s.prev = s.State
	s.State = model.StateStarting
}

// CompleteProcess applies the process-video result. On failure the session
// returns to Uploaded so the operator can retry.
func (s *Session) CompleteProcess(err error) (arm bool) {
	if err != nil {
		s.State = s.prev
		return false
	}
	s.State = model.StateProcessingVideo
	return true
}

// BeginStop marks a stop in flight. Polling() turns false immediately, so
// tick messages arriving during the stop round-trip re-arm nothing.
func (s *Session) BeginStop() {
	s.prev = s.State
	s.State = model.StateStopping
}

// CompleteStop applies the stop result. Success tears the session down
// atomically: generation advances (disarming both polls and orphaning any
// in-flight responses), displayed metrics reset to defaults, and the
// incident log clears. Failure restores the previous state; the generation
// still advances so the caller re-arms a fresh poll pair and any chain that
// survived the stop round-trip is retired, keeping the one-timer-per-poll
// invariant.
func (s *Session) CompleteStop(err error) {
	s.Generation++
	if err != nil {
		s.State = s.prev
		return
	}
	s.State = model.StateIdle
	s.Snapshot = zeroSnapshot()
	s.Incidents.Clear()
	s.Stats = model.SessionStats{}
	s.UploadedFile = ""
}

// ApplyMetrics installs a snapshot from a metrics poll issued under gen.
// Stale responses are dropped and the previous snapshot stays displayed.
func (s *Session) ApplyMetrics(gen int, snap model.MetricsSnapshot) bool {
	if !s.Current(gen) || !s.Polling() {
		return false
	}
	s.Snapshot = snap
	s.Stats.Observe(snap)
	return true
}

// ApplyIncidents installs an incident feed from a poll issued under gen.
func (s *Session) ApplyIncidents(gen int, records []model.IncidentRecord) bool {
	if !s.Current(gen) || !s.Polling() {
		return false
	}
	s.Incidents.Apply(records)
	return true
}
