package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

// Indicator is the wire form of one indicator.
type Indicator struct {
	Index int         `json:"index"`
	Color model.Color `json:"color"`
}

type Snapshot struct {
	Count      int         `json:"count"`
	Digits     int         `json:"digits"`
	Indicators []Indicator `json:"indicators"`
	Rows       []string    `json:"rows"`
	Update     uint64      `json:"update"`
}

// Control is a request to change one indicator. Both fields are required.
type Control struct {
	Index *int         `json:"index"`
	Color *model.Color `json:"color"`
}

type controlError struct {
	Error string `json:"error"`
}

// client serialises writes; a websocket.Conn takes one writer at a time.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// State serialises all access to the Monitor and fans snapshots out to websocket
// clients.
type State struct {
	mu      sync.Mutex
	mon     *monitor.Monitor
	updates uint64

	cmu     sync.RWMutex
	clients map[*websocket.Conn]*client

	driver    string
	startTime time.Time
	log       zerolog.Logger
	up        websocket.Upgrader
}

func NewState(mon *monitor.Monitor, driver string, log zerolog.Logger) *State {
	return &State{
		mon:       mon,
		driver:    driver,
		startTime: time.Now(),
		clients:   map[*websocket.Conn]*client{},
		log:       log.With().Str("component", "ws").Logger(),
		up:        websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Routes registers the hub's handlers on mux.
func (s *State) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/status", s.HandleStatusWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/indicators", s.HandleIndicators)
	mux.HandleFunc("/health", s.HandleHealth)
}

// Set changes one indicator and broadcasts the new snapshot.
func (s *State) Set(index int, c model.Color) (Snapshot, error) {
	s.mu.Lock()
	if err := s.mon.SetIndicator(index, c); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.updates++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info().Int("index", index).Stringer("color", c).Msg("indicator changed")
	s.broadcast(snap)
	return snap, nil
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Count:      s.mon.Count(),
		Digits:     s.mon.Digits(),
		Indicators: make([]Indicator, 0, s.mon.Count()),
		Update:     s.updates,
	}
	for i := 0; i < s.mon.Count(); i++ {
		c, err := s.mon.Indicator(i)
		if err != nil {
			continue
		}
		snap.Indicators = append(snap.Indicators, Indicator{Index: i, Color: c})
	}
	for _, r := range s.mon.Rows() {
		snap.Rows = append(snap.Rows, fmt.Sprintf("%08b", r))
	}
	return snap
}

func (s *State) HandleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	// Register before the first write so no update is missed in between.
	cl := &client{conn: conn}
	s.cmu.Lock()
	s.clients[conn] = cl
	s.cmu.Unlock()
	if b, err := json.Marshal(s.Snapshot()); err == nil {
		_ = cl.write(b)
	}

	go func() {
		defer func() {
			s.cmu.Lock()
			delete(s.clients, conn)
			s.cmu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send(conn, controlError{Error: err.Error()})
			continue
		}
		if msg.Index == nil || msg.Color == nil {
			s.send(conn, controlError{Error: "control needs index and color"})
			continue
		}
		snap, err := s.Set(*msg.Index, *msg.Color)
		if err != nil {
			s.log.Warn().Err(err).Int("index", *msg.Index).Msg("control rejected")
			s.send(conn, controlError{Error: err.Error()})
			continue
		}
		s.send(conn, snap)
	}
}

func (s *State) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Snapshot())
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"uptime_s": time.Since(s.startTime).Seconds(),
		"updates":  s.updates,
		"count":    s.mon.Count(),
		"ready":    s.mon.Initialized(),
		"driver":   s.driver,
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal snapshot")
		return
	}
	s.cmu.RLock()
	defer s.cmu.RUnlock()
	for _, c := range s.clients {
		if err := c.write(b); err != nil {
			s.log.Debug().Err(err).Msg("write snapshot")
		}
	}
}

func (s *State) send(conn *websocket.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
