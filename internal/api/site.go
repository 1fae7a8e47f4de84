package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/site"
)

const maxContactBody = 16 << 10

// SiteHandler serves the personal site endpoints.
type SiteHandler struct {
	homeURL    string
	discordURL string
	contact    ContactSender
	projects   []models.Project
	tags       []string
	langs      []string
}

// NewSiteHandler creates a SiteHandler. A nil contact sender disables the
// contact form; empty URLs disable their redirects.
func NewSiteHandler(homeURL, discordURL string, contact ContactSender, projects []models.Project) *SiteHandler {
	if projects == nil {
		projects = []models.Project{}
	}
	return &SiteHandler{
		homeURL:    homeURL,
		discordURL: discordURL,
		contact:    contact,
		projects:   projects,
		tags:       site.Tags(projects),
		langs:      site.Languages(projects),
	}
}

// Home handles GET /site/ by redirecting to the home page.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, h.homeURL, http.StatusTemporaryRedirect)
}

// Discord handles GET /discord.
func (h *SiteHandler) Discord(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, h.discordURL, http.StatusPermanentRedirect)
}

// Contact handles POST /site/contact.
func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if h.contact == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	if err := h.contact.Send(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrUpstream):
			slog.Warn("contact relay failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("message could not be delivered"))
		default:
			slog.Error("contact failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Projects handles GET /site/projects.
func (h *SiteHandler) Projects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.projects)
}

// Languages handles GET /site/projects/langs.
func (h *SiteHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.langs)
}

// Tags handles GET /site/projects/tags.
func (h *SiteHandler) Tags(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.tags)
}

func redirect(w http.ResponseWriter, r *http.Request, target string, code int) {
	if target == "" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	http.Redirect(w, r, target, code)
}
