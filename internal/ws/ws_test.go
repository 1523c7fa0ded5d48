package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/soundbars/internal/frame"
	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
	"github.com/coreman2200/soundbars/internal/settings"
)

type silence struct{}

func (silence) Bands(dst []uint8, _, _ int) error { return nil }

func setup(t *testing.T) (*State, *frame.Scheduler, *httptest.Server) {
	t.Helper()
	l, err := layout.Preset("strip")
	require.NoError(t, err)
	st := NewState(l, nil)
	st.Throttle = 0
	sched, err := frame.New(frame.Options{
		Layout:   l,
		Source:   silence{},
		Sink:     led.Tee{&led.Fake{}, st},
		Settings: settings.Default(),
	})
	require.NoError(t, err)
	st.SetController(sched)

	srv := httptest.NewServer(st.Handler())
	t.Cleanup(srv.Close)
	return st, sched, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestFramesStreamTopologyThenFrames(t *testing.T) {
	_, sched, srv := setup(t)
	conn := dial(t, srv, "/ws")

	var top map[string]any
	require.NoError(t, conn.ReadJSON(&top))
	assert.Equal(t, "strip", top["layout"])
	assert.Equal(t, float64(60), top["count"])
	require.Len(t, top["segments"], 1)

	require.NoError(t, sched.Frame(0))

	var f struct {
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, uint64(1), f.FrameID)
	assert.Len(t, f.RGB, 180)
}

func TestControlAppliesOnNextFrame(t *testing.T) {
	_, sched, srv := setup(t)
	conn := dial(t, srv, "/control")

	require.NoError(t, conn.WriteJSON(map[string]any{"next": true, "gain": 5, "solid": "#00ff00"}))
	var status frame.Status
	require.NoError(t, conn.ReadJSON(&status))

	require.NoError(t, sched.Frame(0))
	got := sched.Status()
	assert.Equal(t, "twinkle", got.Pattern)
	assert.Equal(t, uint8(5), got.Settings.Gain)
}

func TestControlStartsCalibration(t *testing.T) {
	_, sched, srv := setup(t)
	conn := dial(t, srv, "/control")

	require.NoError(t, conn.WriteJSON(Control{RunTest: "index_sweep"}))
	var status frame.Status
	require.NoError(t, conn.ReadJSON(&status))

	require.NoError(t, sched.Frame(0))
	assert.True(t, sched.Status().Calibrating)
}

func TestUnknownTestIsDiagnosed(t *testing.T) {
	st, _, srv := setup(t)
	diag := dial(t, srv, "/diag")
	require.Eventually(t, func() bool {
		return len(st.snapshot(st.diagClients)) == 1
	}, time.Second, 5*time.Millisecond)

	conn := dial(t, srv, "/control")
	require.NoError(t, conn.WriteJSON(Control{RunTest: "strobe"}))

	var d Diagnostic
	require.NoError(t, diag.ReadJSON(&d))
	assert.Equal(t, "TEST.UNKNOWN", d.Code)
	assert.Equal(t, Warn, d.Severity)
}

func TestHealth(t *testing.T) {
	_, sched, srv := setup(t)
	require.NoError(t, sched.Frame(0))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body struct {
		FrameID uint64       `json:"frame_id"`
		Count   int          `json:"count"`
		Status  frame.Status `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(1), body.FrameID)
	assert.Equal(t, 60, body.Count)
	assert.Equal(t, uint64(1), body.Status.Frames)
	assert.Equal(t, "sound", body.Status.Pattern)
}

func TestThrottleSkipsFrames(t *testing.T) {
	l, _ := layout.Preset("strip")
	st := NewState(l, nil)
	st.Throttle = time.Hour
	st.clients[&client{}] = true
	st.lastEmit = time.Now()

	require.NoError(t, st.Write(make([]byte, 180)))
	assert.Equal(t, uint64(1), st.frameID)
}
