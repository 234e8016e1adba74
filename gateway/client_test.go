package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch/model"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, zerolog.Nop()), srv
}

func TestStartCameraSuccess(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/start_camera", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		io.WriteString(w, `{"status":"success","message":"Camera started"}`)
	})
	defer srv.Close()

	ack, err := c.StartCamera(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Camera started", ack.Message)
}

func TestBackendDeclaredFailure(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"error","message":"Camera already started"}`)
	})
	defer srv.Close()

	_, err := c.StartCamera(context.Background())
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Camera already started", be.Message)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL, zerolog.Nop())
	srv.Close() // connection refused from here on

	_, err := c.FetchMetrics(context.Background())
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
}

func TestMalformedResponse(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	})
	defer srv.Close()

	_, err := c.StopCamera(context.Background())
	var me *MalformedResponseError
	require.ErrorAs(t, err, &me)
}

func TestFetchMetricsFull(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		io.WriteString(w, `{
			"people_count": 42, "fps": 14.7, "alert_level": 2,
			"stampede_risk": {"score": 0.31, "level": "MEDIUM",
				"factors": {"density": 0.5, "velocity": 0.2, "direction": 0, "acceleration": 0}}
		}`)
	})
	defer srv.Close()

	snap, err := c.FetchMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, snap.PeopleCount)
	assert.Equal(t, 2, snap.AlertLevel)
	assert.InDelta(t, 14.7, snap.FPS, 1e-9)
	assert.Equal(t, model.RiskMedium, snap.StampedeRisk.Level)
	assert.InDelta(t, 0.5, snap.StampedeRisk.Factors.Density, 1e-9)
}

func TestFetchMetricsDefaultsWhenIdle(t *testing.T) {
	// An idle backend may answer with a bare or partial object; every field
	// must default rather than fail.
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	defer srv.Close()

	snap, err := c.FetchMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PeopleCount)
	assert.Equal(t, 0, snap.AlertLevel)
	assert.Equal(t, 0.0, snap.FPS)
	assert.Equal(t, model.RiskLow, snap.StampedeRisk.Level)
	assert.Equal(t, model.Factors{}, snap.StampedeRisk.Factors)
}

func TestFetchMetricsToleratesNaNAndJunk(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// Python's json emits bare NaN before the first processed frame
		io.WriteString(w, `{"people_count": -3, "fps": NaN, "alert_level": 9,
			"stampede_risk": {"level": "SEVERE"}}`)
	})
	defer srv.Close()

	snap, err := c.FetchMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PeopleCount, "negative count clamps to zero")
	assert.Equal(t, 0.0, snap.FPS, "NaN fps normalizes to zero")
	assert.Equal(t, 9, snap.AlertLevel, "raw level passes through; classification owns the fallback")
	assert.Equal(t, model.RiskLow, snap.StampedeRisk.Level)
}

func TestFetchIncidents(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stampede_incidents", r.URL.Path)
		io.WriteString(w, `{"status":"success","data":[
			[1700000002000, "HIGH", 55, 0.91, {"density": 0.9}],
			[1700000001000, "MEDIUM", 31, 0.52, {}],
			[1700000000000]
		]}`)
	})
	defer srv.Close()

	records, err := c.FetchIncidents(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, int64(1700000002000), records[0].Timestamp)
	assert.Equal(t, model.RiskHigh, records[0].RiskLevel)
	assert.Equal(t, 55, records[0].PeopleCount)
	assert.InDelta(t, 0.91, records[0].RiskScore, 1e-9)
	assert.NotEmpty(t, records[0].Factors)

	// Truncated row decodes with defaults instead of failing the poll
	assert.Equal(t, model.RiskLow, records[2].RiskLevel)
	assert.Equal(t, 0, records[2].PeopleCount)
}

func TestFetchIncidentsEmpty(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"success","data":[]}`)
	})
	defer srv.Close()

	records, err := c.FetchIncidents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchIncidentsMalformedData(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"success","data":[{"not":"a row"}]}`)
	})
	defer srv.Close()

	_, err := c.FetchIncidents(context.Background())
	var me *MalformedResponseError
	require.ErrorAs(t, err, &me)
}

func TestUploadVideo(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload_video", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("video")
		require.NoError(t, err)
		defer f.Close()

		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "fake video bytes", string(body))
		assert.Equal(t, "crowd.mp4", hdr.Filename)

		io.WriteString(w, `{"status":"success","filename":"crowd_001.mp4"}`)
	})
	defer srv.Close()

	ack, err := c.UploadVideo(context.Background(), strings.NewReader("fake video bytes"), "crowd.mp4")
	require.NoError(t, err)
	assert.Equal(t, "crowd_001.mp4", ack.Filename)
}

func TestExportOperations(t *testing.T) {
	var gotPaths []string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		io.WriteString(w, `{"status":"success","message":"done"}`)
	})
	defer srv.Close()

	ctx := context.Background()
	for _, call := range []func(context.Context) (Ack, error){
		c.ResetDatabase, c.ExportData, c.ExportStampedeReport, c.StartProcessing,
	} {
		ack, err := call(ctx)
		require.NoError(t, err)
		assert.Equal(t, "done", ack.Message)
	}
	assert.Equal(t, []string{"/reset_database", "/export_data", "/export_stampede_report", "/process_video"}, gotPaths)
}

func TestHTTPErrorStatus(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := c.StartCamera(context.Background())
	var be *BackendError
	require.True(t, errors.As(err, &be))
}
