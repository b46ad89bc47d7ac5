package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FeedHandler broadcasts live detection results and the aim state via
// WebSocket so the calibration tool can draw centroid and threshold
// feedback without polling.
type FeedHandler struct {
	pipeline Pipeline
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
}

// NewFeedHandler creates a new FeedHandler and starts its broadcast loop.
func NewFeedHandler(p Pipeline) *FeedHandler {
	h := &FeedHandler{
		pipeline: p,
		clients:  make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.pipeline.SetPreviewEnabled(true)
	defer h.pipeline.SetPreviewEnabled(false)

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends detection and aim data to all connected clients.
func (h *FeedHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	var lastSeq uint64

	for range ticker.C {
		h.mu.RLock()
		empty := len(h.clients) == 0
		h.mu.RUnlock()
		if empty {
			continue
		}

		preview := h.pipeline.Preview()
		if preview == nil || preview.Seq == lastSeq {
			continue
		}
		lastSeq = preview.Seq

		msg, err := json.Marshal(map[string]any{
			"detection": preview.Detection,
			"aim":       h.pipeline.Publisher().Read(),
			"timestamp": preview.Timestamp.UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
