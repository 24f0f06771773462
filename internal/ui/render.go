package ui

//go:generate go tool templ generate -path ..

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/templui/headlesswp/internal/ctxkeys"
)

func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	RenderStatus(w, r, http.StatusOK, c)
}

// RenderStatus renders into a buffer first so a failing component still
// produces a clean 500 instead of a half-written page with the wrong status.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	body, err := RenderBytes(r.Context(), c)
	if err != nil {
		slog.Error("render failed",
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
			"error", err,
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	WriteHTML(w, status, body)
}

// RenderBytes renders a component to memory, used for cached pages and exports.
func RenderBytes(ctx context.Context, c templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	err := c.Render(ctx, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(body)
	if err != nil {
		slog.Debug("write response failed", "error", err)
	}
}
