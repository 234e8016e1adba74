package engine

import "crowdwatch/model"

// Reconciler owns the visible incident log. The backend is the source of
// truth for ordering and membership, so every successful poll replaces the
// log wholesale; the client never merges or accumulates. On a failed poll
// the previous log stays on screen (stale-but-available over blank).
type Reconciler struct {
	records []model.IncidentRecord
	polled  bool
}

// NewReconciler creates an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Apply replaces the log with the newest records from one successful poll,
// capped at model.IncidentLogCap. An empty feed is a valid result and yields
// the explicit empty state, not the previous log.
func (r *Reconciler) Apply(records []model.IncidentRecord) {
	if len(records) > model.IncidentLogCap {
		records = records[:model.IncidentLogCap]
	}
	r.records = append([]model.IncidentRecord(nil), records...)
	r.polled = true
}

// Records returns the visible log, newest-first.
func (r *Reconciler) Records() []model.IncidentRecord {
	return r.records
}

// Polled reports whether at least one poll has succeeded since the last
// Clear. It distinguishes "no incidents recorded" from "nothing fetched yet".
func (r *Reconciler) Polled() bool {
	return r.polled
}

// Clear empties the log, used on session stop.
func (r *Reconciler) Clear() {
	r.records = nil
	r.polled = false
}
