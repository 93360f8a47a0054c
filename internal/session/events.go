package session

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler streams auth state updates for the request's session over a
// WebSocket. The current state is sent immediately, then every change until
// the client disconnects. The callback page uses this to react to the
// exchange settling without polling.
func EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := FromContext(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("session: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		updates, cancel := h.Subscribe()
		defer cancel()

		// Drain reads so close frames are processed.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := conn.WriteJSON(h.State(r.Context())); err != nil {
			return
		}

		for {
			select {
			case st := <-updates:
				if err := conn.WriteJSON(st); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						log.Printf("session: websocket write: %v", err)
					}
					return
				}
			case <-done:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}
