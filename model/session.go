package model

// SessionState represents the monitoring session lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateStarting
	StateLiveCamera
	StateUploaded
	StateProcessingVideo
	StateStopping
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStarting:
		return "Starting"
	case StateLiveCamera:
		return "Live Camera"
	case StateUploaded:
		return "Video Uploaded"
	case StateProcessingVideo:
		return "Processing Video"
	case StateStopping:
		return "Stopping"
	}
	return "Unknown"
}

// Active reports whether a session is running and the pollers should be armed.
func (s SessionState) Active() bool {
	return s == StateLiveCamera || s == StateProcessingVideo
}

// SessionStats holds per-session counters, reset when the session stops.
type SessionStats struct {
	PeakCount int // highest people count seen this session
	Ticks     int // successful metrics polls this session
}

// Observe updates the counters with one metrics snapshot.
func (st *SessionStats) Observe(snap MetricsSnapshot) {
	st.Ticks++
	if snap.PeopleCount > st.PeakCount {
		st.PeakCount = snap.PeopleCount
	}
}
