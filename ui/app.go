// Package ui is the operator console. It follows the single-threaded
// bubbletea update loop: user keys, poll timers, and gateway responses all
// arrive as messages on one goroutine, so session state needs no locking.
package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"crowdwatch/config"
	"crowdwatch/engine"
	"crowdwatch/gateway"
	"crowdwatch/model"
)

// Poll timer messages. Each carries the generation it was armed under; a
// tick whose generation no longer matches the session is dead and re-arms
// nothing, which is how stop cancels both pollers and how a double start
// can never leave two live timer chains of the same kind.
type metricsTickMsg struct{ gen int }
type incidentTickMsg struct{ gen int }

// Gateway response messages, generation-tagged for the same reason.
type metricsMsg struct {
	gen  int
	snap model.MetricsSnapshot
	err  error
}

type incidentsMsg struct {
	gen     int
	records []model.IncidentRecord
	err     error
}

type lifecycleAction int

const (
	actionStart lifecycleAction = iota
	actionProcess
	actionStop
)

type lifecycleMsg struct {
	action lifecycleAction
	ack    gateway.Ack
	err    error
}

type uploadMsg struct {
	filename string
	err      error
}

// dataOpMsg reports a reset/export round-trip.
type dataOpMsg struct {
	label string
	ack   gateway.Ack
	err   error
}

// clearNoticeMsg expires the transient data-operation notice.
type clearNoticeMsg struct{ seq int }

const noticeTTL = 4 * time.Second

// Model is the bubbletea model.
type Model struct {
	cfg     config.Config
	client  *gateway.Client
	session *engine.Session
	log     zerolog.Logger

	width  int
	height int

	showHelp bool

	// Upload path prompt
	input     textinput.Model
	prompting bool
	uploading bool

	spin spinner.Model

	// Session status line + transient data-operation feedback
	status    string
	notice    string
	noticeSeq int
}

// NewModel creates the console model. videoPath pre-fills the upload prompt.
func NewModel(cfg config.Config, client *gateway.Client, log zerolog.Logger, videoPath string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	in := textinput.New()
	in.Placeholder = "/path/to/video.mp4"
	in.CharLimit = 256
	in.Width = 48
	if videoPath != "" {
		in.SetValue(videoPath)
	}

	return Model{
		cfg:     cfg,
		client:  client,
		session: engine.NewSession(),
		log:     log.With().Str("component", "ui").Logger(),
		input:   in,
		spin:    sp,
		status:  "Ready. Press s to start the camera.",
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// ── Commands ────────────────────────────────────────────────────────────────

func metricsTick(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return metricsTickMsg{gen: gen} })
}

func incidentTick(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return incidentTickMsg{gen: gen} })
}

func (m Model) fetchMetrics(gen int) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.client.FetchMetrics(context.Background())
		return metricsMsg{gen: gen, snap: snap, err: err}
	}
}

func (m Model) fetchIncidents(gen int) tea.Cmd {
	return func() tea.Msg {
		records, err := m.client.FetchIncidents(context.Background())
		return incidentsMsg{gen: gen, records: records, err: err}
	}
}

// armPollers starts both poll chains for the current generation and issues
// an immediate first fetch of each so the display fills without waiting a
// full interval.
func (m Model) armPollers() tea.Cmd {
	gen := m.session.Generation
	return tea.Batch(
		m.fetchMetrics(gen),
		m.fetchIncidents(gen),
		metricsTick(m.cfg.MetricsEvery(), gen),
		incidentTick(m.cfg.IncidentsEvery(), gen),
	)
}

func (m Model) startCamera() tea.Cmd {
	return func() tea.Msg {
		ack, err := m.client.StartCamera(context.Background())
		return lifecycleMsg{action: actionStart, ack: ack, err: err}
	}
}

func (m Model) stopCamera() tea.Cmd {
	return func() tea.Msg {
		ack, err := m.client.StopCamera(context.Background())
		return lifecycleMsg{action: actionStop, ack: ack, err: err}
	}
}

func (m Model) startProcessing() tea.Cmd {
	return func() tea.Msg {
		ack, err := m.client.StartProcessing(context.Background())
		return lifecycleMsg{action: actionProcess, ack: ack, err: err}
	}
}

func (m Model) uploadVideo(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadMsg{err: err}
		}
		defer f.Close()
		ack, err := m.client.UploadVideo(context.Background(), f, filepath.Base(path))
		if err != nil {
			return uploadMsg{err: err}
		}
		return uploadMsg{filename: ack.Filename}
	}
}

func (m Model) dataOp(label string, call func(context.Context) (gateway.Ack, error)) tea.Cmd {
	return func() tea.Msg {
		ack, err := call(context.Background())
		return dataOpMsg{label: label, ack: ack, err: err}
	}
}

func clearNotice(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

// ── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case metricsTickMsg:
		if !m.session.Current(msg.gen) || !m.session.Polling() {
			return m, nil // stale chain, dies here
		}
		return m, tea.Batch(m.fetchMetrics(msg.gen), metricsTick(m.cfg.MetricsEvery(), msg.gen))

	case incidentTickMsg:
		if !m.session.Current(msg.gen) || !m.session.Polling() {
			return m, nil
		}
		return m, tea.Batch(m.fetchIncidents(msg.gen), incidentTick(m.cfg.IncidentsEvery(), msg.gen))

	case metricsMsg:
		if !m.session.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			// Last known good stays on screen; the chain keeps ticking
			m.log.Warn().Err(msg.err).Msg("metrics poll failed")
			if m.session.Polling() {
				m.status = fmt.Sprintf("Metrics poll failed: %v", msg.err)
			}
			return m, nil
		}
		if m.session.ApplyMetrics(msg.gen, msg.snap) {
			m.status = engine.ClassifyAlert(msg.snap.AlertLevel).Message
		}

	case incidentsMsg:
		if !m.session.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			// Stale-but-available beats blank: keep the previous log
			m.log.Warn().Err(msg.err).Msg("incident poll failed")
			return m, nil
		}
		m.session.ApplyIncidents(msg.gen, msg.records)

	case lifecycleMsg:
		return m.updateLifecycle(msg)

	case uploadMsg:
		m.uploading = false
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("upload failed")
			m.status = fmt.Sprintf("Upload failed: %v", msg.err)
			return m, nil
		}
		m.session.SetUploaded(msg.filename)
		m.status = fmt.Sprintf("Uploaded %s. Press p to process.", msg.filename)

	case dataOpMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("op", msg.label).Msg("data operation failed")
			m.notice = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
		} else if msg.ack.Message != "" {
			m.notice = msg.ack.Message
		} else {
			m.notice = msg.label + " done."
		}
		m.noticeSeq++
		return m, clearNotice(m.noticeSeq)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.prompting {
		switch msg.String() {
		case "esc":
			m.prompting = false
			m.input.Blur()
			return m, nil
		case "enter":
			path := m.input.Value()
			m.prompting = false
			m.input.Blur()
			if path == "" {
				return m, nil
			}
			m.uploading = true
			m.status = "Uploading " + filepath.Base(path) + "..."
			return m, tea.Batch(m.uploadVideo(path), m.spin.Tick)
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "s":
		if m.session.CanStart() && !m.uploading {
			m.session.BeginStart()
			m.status = "Starting camera..."
			return m, tea.Batch(m.startCamera(), m.spin.Tick)
		}
	case "u":
		if m.session.CanUpload() && !m.uploading {
			m.prompting = true
			m.input.Focus()
			return m, textinput.Blink
		}
	case "p":
		if m.session.CanProcess() {
			m.session.BeginProcess()
			m.status = "Starting video processing..."
			return m, tea.Batch(m.startProcessing(), m.spin.Tick)
		}
	case "x":
		if m.session.CanStop() {
			m.session.BeginStop()
			m.status = "Stopping..."
			return m, tea.Batch(m.stopCamera(), m.spin.Tick)
		}
	case "r":
		return m, m.dataOp("Database reset", m.client.ResetDatabase)
	case "e":
		return m, m.dataOp("Data export", m.client.ExportData)
	case "S":
		return m, m.dataOp("Stampede report", m.client.ExportStampedeReport)
	}
	return m, nil
}

func (m Model) updateLifecycle(msg lifecycleMsg) (tea.Model, tea.Cmd) {
	switch msg.action {
	case actionStart:
		if arm := m.session.CompleteStart(msg.err); arm {
			m.status = "Camera started. Detecting crowd..."
			return m, m.armPollers()
		}
		m.log.Error().Err(msg.err).Msg("start camera failed")
		m.status = fmt.Sprintf("Error: %v", msg.err)

	case actionProcess:
		if arm := m.session.CompleteProcess(msg.err); arm {
			m.status = "Processing video. Detecting crowd..."
			return m, m.armPollers()
		}
		m.log.Error().Err(msg.err).Msg("process video failed")
		m.status = fmt.Sprintf("Error: %v", msg.err)

	case actionStop:
		m.session.CompleteStop(msg.err)
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("stop failed")
			m.status = fmt.Sprintf("Error: %v", msg.err)
			if m.session.Polling() {
				// Session is still live; rebuild the poll pair under the
				// fresh generation
				return m, m.armPollers()
			}
		} else {
			m.status = "Camera stopped. System ready."
		}
	}
	return m, nil
}

// busy reports whether a lifecycle transition or upload is in flight.
func (m Model) busy() bool {
	return m.uploading ||
		m.session.State == model.StateStarting ||
		m.session.State == model.StateStopping
}
