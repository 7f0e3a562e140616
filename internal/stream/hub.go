package stream

import (
	"context"
	"log/slog"
)

// Hub fans encoded frames out to every connected client. Slow clients skip
// frames rather than stall the render loop.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]struct{}
	done       chan struct{}
	log        *slog.Logger
}

func newHub(log *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 1),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.log.Debug("hub stopped")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Info("viewer connected", "remote", c.remote, "viewers", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Info("viewer disconnected", "remote", c.remote, "viewers", len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Debug("viewer behind, dropping frame", "remote", c.remote)
				}
			}
		}
	}
}

// add registers c, reporting false once the hub has stopped.
func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues msg without blocking; a pending frame is replaced.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
		return
	default:
	}
	select {
	case <-h.broadcast:
	default:
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}
