package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

type HomeHandler struct {
	appName string
	assets  fs.FS
	files   http.Handler
}

// NewHomeHandler serves the built frontend from assets. A nil assets means the
// frontend is not bundled and only the API answers.
func NewHomeHandler(appName string, assets fs.FS) *HomeHandler {
	h := &HomeHandler{appName: appName, assets: assets}
	if assets != nil {
		h.files = http.FileServer(http.FS(assets))
	}
	return h
}

func (h *HomeHandler) API(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, h.appName+" API is running 🚀")
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorMessage(w, http.StatusNotFound, "Not found")
}

// App serves static files of the frontend and falls back to index.html so
// client-side routes survive a reload.
func (h *HomeHandler) App(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil || strings.HasPrefix(r.URL.Path, "/api/") {
		h.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name != "" {
		info, err := fs.Stat(h.assets, name)
		if err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to stat frontend asset", "error", err, "path", name)
		}
	}

	index, err := fs.ReadFile(h.assets, "index.html")
	if err != nil {
		slog.Error("failed to read frontend index", "error", err)
		h.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(index)
}
