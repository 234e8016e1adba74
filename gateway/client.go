// Package gateway is the typed client for the crowd-analysis backend. It is
// pure request/response: no retries, no state, callers decide what a failure
// means for the session.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crowdwatch/model"
)

// Client talks to one backend instance.
type Client struct {
	base   string
	client *http.Client
	log    zerolog.Logger
}

// New creates a client for the given base URL, e.g. "http://127.0.0.1:5000".
func New(base string, log zerolog.Logger) *Client {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return &Client{
		base: base,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("component", "gateway").Logger(),
	}
}

// Ack is the generic success response for lifecycle and data operations.
type Ack struct {
	Message string
}

// UploadAck acknowledges a video upload.
type UploadAck struct {
	Filename string
}

// envelope is the backend's {status, ...} response wrapper.
type envelope struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data"`
}

// StartCamera begins a live camera session on the backend.
func (c *Client) StartCamera(ctx context.Context) (Ack, error) {
	env, err := c.call(ctx, "start_camera", http.MethodGet, "/start_camera", nil, "")
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: env.Message}, nil
}

// StopCamera ends the active session and releases backend resources.
func (c *Client) StopCamera(ctx context.Context) (Ack, error) {
	env, err := c.call(ctx, "stop_camera", http.MethodGet, "/stop_camera", nil, "")
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: env.Message}, nil
}

// UploadVideo transmits a file for offline processing. It does not start
// processing; see StartProcessing.
func (c *Client) UploadVideo(ctx context.Context, r io.Reader, filename string) (UploadAck, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return UploadAck{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadAck{}, fmt.Errorf("reading video file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadAck{}, fmt.Errorf("building upload form: %w", err)
	}

	env, err := c.call(ctx, "upload_video", http.MethodPost, "/upload_video", &buf, mw.FormDataContentType())
	if err != nil {
		return UploadAck{}, err
	}
	name := env.Filename
	if name == "" {
		name = filename
	}
	return UploadAck{Filename: name}, nil
}

// StartProcessing begins processing a previously uploaded file.
func (c *Client) StartProcessing(ctx context.Context) (Ack, error) {
	env, err := c.call(ctx, "process_video", http.MethodPost, "/process_video", nil, "")
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: env.Message}, nil
}

// statsPayload mirrors /stats with optional fields. Defaults are applied at
// this boundary so a partially-populated or idle backend still yields a
// fully-formed snapshot.
type statsPayload struct {
	PeopleCount *int         `json:"people_count"`
	AlertLevel  *int         `json:"alert_level"`
	FPS         *float64     `json:"fps"`
	Stampede    *riskPayload `json:"stampede_risk"`
}

type riskPayload struct {
	Score   *float64       `json:"score"`
	Level   string         `json:"level"`
	Factors *model.Factors `json:"factors"`
}

// FetchMetrics reads one /stats snapshot. A backend with no active session
// returns zeroed fields rather than an error.
func (c *Client) FetchMetrics(ctx context.Context) (model.MetricsSnapshot, error) {
	body, err := c.do(ctx, "stats", http.MethodGet, "/stats", nil, "")
	if err != nil {
		return model.MetricsSnapshot{}, err
	}

	var p statsPayload
	if err := json.Unmarshal(sanitizeNonFinite(body), &p); err != nil {
		return model.MetricsSnapshot{}, &MalformedResponseError{Op: "stats", Err: err}
	}

	snap := model.MetricsSnapshot{
		StampedeRisk: model.RiskAssessment{Level: model.RiskLow},
	}
	if p.PeopleCount != nil && *p.PeopleCount > 0 {
		snap.PeopleCount = *p.PeopleCount
	}
	if p.AlertLevel != nil {
		snap.AlertLevel = *p.AlertLevel
	}
	if p.FPS != nil && !math.IsNaN(*p.FPS) && *p.FPS > 0 {
		snap.FPS = *p.FPS
	}
	if p.Stampede != nil {
		if p.Stampede.Score != nil && !math.IsNaN(*p.Stampede.Score) {
			snap.StampedeRisk.Score = *p.Stampede.Score
		}
		snap.StampedeRisk.Level = model.ParseRiskLevel(p.Stampede.Level)
		if p.Stampede.Factors != nil {
			snap.StampedeRisk.Factors = *p.Stampede.Factors
		}
	}
	return snap, nil
}

// FetchIncidents reads the incident feed, newest-first. The caller owns
// capping the visible window.
func (c *Client) FetchIncidents(ctx context.Context) ([]model.IncidentRecord, error) {
	env, err := c.call(ctx, "stampede_incidents", http.MethodGet, "/stampede_incidents", nil, "")
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	var records []model.IncidentRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, &MalformedResponseError{Op: "stampede_incidents", Err: err}
	}
	return records, nil
}

// ResetDatabase clears the backend's detection database.
func (c *Client) ResetDatabase(ctx context.Context) (Ack, error) {
	env, err := c.call(ctx, "reset_database", http.MethodGet, "/reset_database", nil, "")
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: env.Message}, nil
}

// ExportData asks the backend to export detection data to a file.
func (c *Client) ExportData(ctx context.Context) (Ack, error) {
	env, err := c.call(ctx, "export_data", http.MethodGet, "/export_data", nil, "")
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: env.Message}, nil
}

// ExportStampedeReport asks the backend to generate the stampede report.
func (c *Client) ExportStampedeReport(ctx context.Context) (Ack, error) {
	env, err := c.call(ctx, "export_stampede_report", http.MethodGet, "/export_stampede_report", nil, "")
	if err != nil {
		return Ack{}, err
	}
	return Ack{Message: env.Message}, nil
}

// call issues a request and decodes the {status, ...} envelope, translating
// a declared failure into a BackendError.
func (c *Client) call(ctx context.Context, op, method, path string, body io.Reader, contentType string) (envelope, error) {
	raw, err := c.do(ctx, op, method, path, body, contentType)
	if err != nil {
		return envelope{}, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, &MalformedResponseError{Op: op, Err: err}
	}
	if env.Status != "success" {
		return envelope{}, &BackendError{Op: op, Message: env.Message}
	}
	return env, nil
}

// do issues one request and returns the raw body. Transport failures become
// NetworkError; non-2xx responses become BackendError.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("transport failure")
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BackendError{Op: op, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return raw, nil
}

// sanitizeNonFinite maps bare NaN/Infinity tokens to null. Python's json
// module emits them for non-finite floats (fps before the first frame), and
// encoding/json rejects them outright.
func sanitizeNonFinite(b []byte) []byte {
	for _, tok := range []string{"-Infinity", "Infinity", "NaN"} {
		b = bytes.ReplaceAll(b, []byte(tok), []byte("null"))
	}
	return b
}
