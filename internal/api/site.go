package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgnsrekt/return_notice/internal/controller"
)

// siteHandler serves site pages with the return notifier applied.
func siteHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.RenderPage(r.Context(), r.URL.Path, requestHref(r))
		if err != nil {
			var coded *controller.CodedError
			if errors.As(err, &coded) && coded.Code == controller.CodeNotFound {
				http.NotFound(w, r)
				return
			}
			slog.Error("page render failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		// Pages rendered from a return URL embed the donor's summary.
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(page.HTML); err != nil {
			slog.Debug("page response write failed", "error", err)
		}
	}
}

func requestHref(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
