package main

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mempirate/rlnc-go/internal/rlog"
)

// ProgressEvent is one newline-delimited JSON message streamed to websocket
// clients as peers accept coded packets: rank, which peer accepted it, and
// whether this event completed that peer's decode.
type ProgressEvent struct {
	PeerID int  `json:"peer_id"`
	Rank   int  `json:"rank"`
	Done   bool `json:"done"`
}

func emitProgress(ch chan<- ProgressEvent, peerID, rank int) {
	if ch == nil {
		return
	}
	select {
	case ch <- ProgressEvent{PeerID: peerID, Rank: rank, Done: rank == k}:
	default:
		// Drop if no one is listening fast enough; this is a best-effort
		// observability stream, not a reliability mechanism.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeProgress opens a websocket endpoint at addr ("/progress") and
// streams the ProgressEvents published on events to connected clients as
// JSON. All clients read from the same channel, so with several clients
// connected each event reaches only one of them; events are not broadcast.
// It has no authentication layer; that is a concern for whatever fronts
// this in a real deployment.
func ServeProgress(addr string, events <-chan ProgressEvent) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/progress", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			rlog.Default.Warn("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		for ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				rlog.Default.Debug("websocket client disconnected", "err", err)
				return
			}
		}
	})
	rlog.Default.Info("serving live progress", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
