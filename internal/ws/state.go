// Package ws serves a browser preview of the LED frames and a websocket
// control channel that feeds the frame loop.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/soundbars/internal/calib"
	"github.com/coreman2200/soundbars/internal/frame"
	"github.com/coreman2200/soundbars/internal/layout"
	"github.com/coreman2200/soundbars/internal/led"
)

// DefaultThrottle limits preview frames to about 20 per second.
const DefaultThrottle = 50 * time.Millisecond

const writeWait = 200 * time.Millisecond

// Controller is the frame loop as seen from the control channel.
type Controller interface {
	Send(ctx context.Context, ev frame.Event) error
	Status() frame.Status
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// State is both a led.Driver that mirrors frames to preview clients and the
// HTTP handlers around it.
type State struct {
	Throttle time.Duration
	// CalibrationHold is the frames per calibration step.
	CalibrationHold int

	mu          sync.RWMutex
	layout      layout.Layout
	ctrl        Controller
	frameID     uint64
	lastEmit    time.Time
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	upgrader    websocket.Upgrader
}

var _ led.Driver = (*State)(nil)

func NewState(l layout.Layout, ctrl Controller) *State {
	return &State{
		Throttle:        DefaultThrottle,
		CalibrationHold: calib.DefaultHold,
		layout:          l,
		ctrl:            ctrl,
		startTime:       time.Now(),
		clients:         map[*client]bool{},
		diagClients:     map[*client]bool{},
		upgrader:        websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// SetController attaches the frame loop once it exists.
func (s *State) SetController(c Controller) {
	s.mu.Lock()
	s.ctrl = c
	s.mu.Unlock()
}

// Write counts the frame and, unless throttled, sends it to preview clients.
func (s *State) Write(rgb []byte) error {
	s.mu.Lock()
	s.frameID++
	now := time.Now()
	if s.lastEmit.Add(s.Throttle).After(now) || len(s.clients) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.lastEmit = now
	id := s.frameID
	s.mu.Unlock()

	b, _ := json.Marshal(struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}{now.UnixNano(), id, rgb})
	for _, c := range s.snapshot(s.clients) {
		if err := c.write(b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
	return nil
}

// Close disconnects every client.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range []map[*client]bool{s.clients, s.diagClients} {
		for c := range set {
			c.conn.Close()
			delete(set, c)
		}
	}
	return nil
}

// Handler routes the preview endpoints.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return withCORS(mux)
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c, ok := s.subscribe(w, r, s.clients)
	if !ok {
		return
	}
	s.sendTopology(c)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	s.subscribe(w, r, s.diagClients)
}

// subscribe upgrades the request and keeps the connection in set until the
// peer goes away.
func (s *State) subscribe(w http.ResponseWriter, r *http.Request, set map[*client]bool) (*client, bool) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, false
	}
	c := &client{conn: conn}
	s.mu.Lock()
	set[c] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, c)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return c, true
}

// HandleControlWS reads control messages and answers each with the status
// after it was applied.
func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			s.pushDiag(Diagnostic{Severity: Warn, Code: "CONTROL.INVALID", Summary: "Unreadable control message", Detail: err.Error()})
			continue
		}
		if err := s.apply(r.Context(), msg); err != nil {
			log.Debug().Err(err).Msg("apply control")
			return
		}
		s.sendStatus(c)
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"count":    s.layout.Count(),
		"layout":   s.layout.Name,
	}
	ctrl := s.ctrl
	s.mu.RUnlock()
	if ctrl != nil {
		resp["status"] = ctrl.Status()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) sendTopology(c *client) {
	s.mu.RLock()
	l := s.layout
	s.mu.RUnlock()
	top := map[string]any{
		"layout": l.Name,
		"count":  l.Count(),
		"bands":  l.Bands,
	}
	if l.IsMatrix() {
		top["matrix"] = map[string]any{
			"width": l.Matrix.Width, "height": l.Matrix.Height,
			"serpentine": l.Matrix.Serpentine, "flipY": l.Matrix.FlipY,
		}
	} else {
		segs := make([]map[string]any, len(l.Segments))
		for i, sg := range l.Segments {
			segs[i] = map[string]any{"start": sg.Start, "length": sg.Length, "reversed": sg.Reversed, "centered": sg.Centered}
		}
		top["segments"] = segs
	}
	b, _ := json.Marshal(top)
	_ = c.write(b)
}

func (s *State) sendStatus(c *client) {
	s.mu.RLock()
	ctrl := s.ctrl
	s.mu.RUnlock()
	if ctrl == nil {
		return
	}
	b, _ := json.Marshal(ctrl.Status())
	_ = c.write(b)
}

func (s *State) pushDiag(d Diagnostic) {
	b, _ := json.Marshal(d)
	for _, c := range s.snapshot(s.diagClients) {
		_ = c.write(b)
	}
}

func (s *State) snapshot(set map[*client]bool) []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
