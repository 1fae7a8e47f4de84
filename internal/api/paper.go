package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/paper"
)

// PaperHandler serves PaperMC download lookups.
type PaperHandler struct {
	resolver VersionResolver
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(resolver VersionResolver) *PaperHandler {
	return &PaperHandler{resolver: resolver}
}

// Latest handles GET /paper/latest by redirecting to the newest build.
func (h *PaperHandler) Latest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true, h.resolver.LatestDownloadURL)
}

// LatestURL handles GET /paper/latest/url.
func (h *PaperHandler) LatestURL(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false, h.resolver.LatestDownloadURL)
}

// Version handles GET /paper/{version}.
func (h *PaperHandler) Version(w http.ResponseWriter, r *http.Request) {
	h.forVersion(w, r, true)
}

// VersionURL handles GET /paper/{version}/url.
func (h *PaperHandler) VersionURL(w http.ResponseWriter, r *http.Request) {
	h.forVersion(w, r, false)
}

func (h *PaperHandler) forVersion(w http.ResponseWriter, r *http.Request, redirect bool) {
	v, err := paper.ParseVersion(chi.URLParam(r, "version"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.respond(w, r, redirect, func(ctx context.Context) (string, error) {
		return h.resolver.DownloadURL(ctx, v)
	})
}

func (h *PaperHandler) respond(w http.ResponseWriter, r *http.Request, redirect bool, lookup func(context.Context) (string, error)) {
	url, err := lookup(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrUpstream) {
			writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		} else {
			slog.Error("paper lookup failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if redirect {
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}
	writeText(w, http.StatusOK, url)
}
