package relay

import (
	"fmt"
	"net/http"
	"strings"
)

// parseKinds reads the optional ?kinds=a,b filter. nil accepts everything.
func parseKinds(r *http.Request) map[string]bool {
	q := r.URL.Query().Get("kinds")
	if q == "" {
		return nil
	}
	kinds := make(map[string]bool)
	for _, k := range strings.Split(q, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds[k] = true
		}
	}
	return kinds
}

// SSEHandler returns an http.HandlerFunc that streams notice events as SSE.
func SSEHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}
		kinds := parseKinds(r)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		for {
			select {
			case <-r.Context().Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if kinds != nil && !kinds[evt.Kind] {
					continue
				}
				if evt.ID != "" {
					fmt.Fprintf(w, "id: %s\n", evt.ID)
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind, evt.Payload)
				flusher.Flush()
			}
		}
	}
}
