package relay

import (
	"log/slog"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// WSHandler returns an http.HandlerFunc that streams notice events as
// WebSocket text frames. Client frames are read only to notice disconnects.
func WSHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kinds := parseKinds(r)

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("relay ws upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := wsutil.ReadClientData(conn); err != nil {
					slog.Debug("relay ws reader exit", "subscriber", id, "error", err)
					return
				}
			}
		}()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-gone:
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if kinds != nil && !kinds[evt.Kind] {
					continue
				}
				if err := wsutil.WriteServerText(conn, evt.Payload); err != nil {
					slog.Debug("relay ws write failed", "subscriber", id, "error", err)
					return
				}
			}
		}
	}
}
