package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgnsrekt/return_notice/internal/controller"
	"github.com/dgnsrekt/return_notice/internal/relay"
)

type Service interface {
	Inspect(ctx context.Context, rawQuery string) (controller.InspectResult, error)
	Sanitize(ctx context.Context, href string) (controller.SanitizeResult, error)
	Preview(ctx context.Context, rawQuery, message string) (controller.Preview, error)
	RenderPage(ctx context.Context, urlPath, href string) (controller.Page, error)
}

// NewServer mounts the notice API, the event feed and the site pages. broker
// may be nil, in which case the event routes are not mounted.
func NewServer(svc Service, broker *relay.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Return Notice API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		writeDocs(w, docsHTML)
	})
	router.Get("/docs/events", func(w http.ResponseWriter, r *http.Request) {
		writeDocs(w, eventsDocsHTML)
	})

	registerNoticeHandlers(api, svc)

	if broker != nil {
		router.Get("/events", relay.SSEHandler(broker))
		router.Get("/ws", relay.WSHandler(broker))
	}

	router.Get("/*", siteHandler(svc))

	return router
}

func writeDocs(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Debug("docs response write failed", "error", err)
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *controller.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case controller.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case controller.CodeNotFound:
			return huma.Error404NotFound(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
