package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
)

const writeWait = 5 * time.Second

// handleEvents streams a snapshot on every state change, and once per tick
// while recording so the elapsed counter stays live.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Web: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, events := s.controller.Subscribe()
	defer s.controller.Unsubscribe(id)
	log.Debug("Web: event stream opened", "subscriber", id)

	// The client never sends anything meaningful; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	var last pipeline.Snapshot
	for {
		select {
		case snap, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			last = snap
			if err := s.send(conn, snap); err != nil {
				return
			}

		case <-ticker.C:
			if last.Status != pipeline.Recording {
				continue
			}
			snap := s.controller.Snapshot()
			if snap.Status != pipeline.Recording || snap.Elapsed == last.Elapsed {
				continue
			}
			last = snap
			if err := s.send(conn, snap); err != nil {
				return
			}

		case <-closed:
			log.Debug("Web: event stream closed", "subscriber", id)
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, snap pipeline.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snap); err != nil {
		log.Debug("Web: event write failed", "err", err)
		return err
	}
	return nil
}

// sameHost accepts requests without an Origin (CLI tools) and browser pages
// served from the same host.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
