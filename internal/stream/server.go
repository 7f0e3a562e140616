package stream

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/matrixvis/internal/player"
	"github.com/san-kum/matrixvis/internal/vis"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 4
)

//go:embed index.html
var indexPage []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

// Control is a message sent by a viewer. Tilt fields are optional.
type Control struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Button string   `json:"button,omitempty"`
}

// Server streams frames and collects viewer input. It is a player.Observer
// and a player.InputSource.
type Server struct {
	addr   string
	log    *slog.Logger
	hub    *Hub
	server *http.Server

	mu      sync.Mutex
	accel   vis.Vec2
	buttons chan player.Button
}

func New(addr string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		addr:    addr,
		log:     log,
		hub:     newHub(log),
		buttons: make(chan player.Button, 8),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Serve runs the hub and HTTP server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.server = &http.Server{
		Addr:           s.addr,
		Handler:        s.Handler(),
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		s.server.Close()
	}()

	s.log.Info("streaming panel", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) OnFrame(f player.Frame) {
	if f.Buffer == nil {
		return
	}
	s.hub.Broadcast(EncodeFrame(f.Buffer))
}

// Poll returns the latest tilt and at most one queued button press.
func (s *Server) Poll() player.Input {
	s.mu.Lock()
	in := player.Input{Accel: s.accel}
	s.mu.Unlock()

	select {
	case b := <-s.buttons:
		in.Button = b
	default:
	}
	return in
}

func (s *Server) apply(c Control) {
	s.mu.Lock()
	if c.X != nil {
		s.accel.X = *c.X
	}
	if c.Y != nil {
		s.accel.Y = *c.Y
	}
	s.mu.Unlock()

	var b player.Button
	switch c.Button {
	case "":
		return
	case "next", "up":
		b = player.ButtonNext
	case "prev", "down":
		b = player.ButtonPrev
	default:
		s.log.Debug("unknown button", "button", c.Button)
		return
	}
	select {
	case s.buttons <- b:
	default:
		s.log.Debug("button queue full", "button", c.Button)
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), remote: r.RemoteAddr}
	if !s.hub.add(c) {
		conn.Close()
		return
	}

	go s.writePump(c)
	go s.readPump(c)
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			s.log.Debug("write to viewer failed", "remote", c.remote, "err", err)
			s.hub.remove(c)
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (s *Server) readPump(c *client) {
	defer s.hub.remove(c)
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("viewer read failed", "remote", c.remote, "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		var ctl Control
		if err := json.Unmarshal(data, &ctl); err != nil {
			s.log.Debug("bad control message", "remote", c.remote, "err", err)
			continue
		}
		s.apply(ctl)
	}
}
