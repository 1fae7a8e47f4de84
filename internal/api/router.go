package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/site"
)

// Deps are the collaborators the router dispatches to. Documents is
// required; every other field may be left zero to disable its routes.
type Deps struct {
	Documents DocumentService
	Paper     VersionResolver
	Contact   ContactSender
	Projects  []models.Project
	Limiter   *site.Limiter

	HomeURL    string
	DiscordURL string

	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(d Deps) chi.Router {
	h := NewHandler(d.Documents)
	sh := NewSiteHandler(d.HomeURL, d.DiscordURL, d.Contact, d.Projects)

	r := chi.NewRouter()

	// Blog.
	r.Get("/blog/posts", h.ListDocuments)
	r.Get("/blog/{slug}", h.GetDocument)

	// PaperMC.
	if d.Paper != nil {
		ph := NewPaperHandler(d.Paper)
		r.Route("/paper", func(r chi.Router) {
			r.Get("/latest", ph.Latest)
			r.Get("/latest/url", ph.LatestURL)
			r.Get("/{version}", ph.Version)
			r.Get("/{version}/url", ph.VersionURL)
		})
	}

	// Site.
	r.Route("/site", func(r chi.Router) {
		r.Get("/", sh.Home)
		r.With(RateLimitMiddleware(d.Limiter)).Post("/contact", sh.Contact)
		r.Get("/projects", sh.Projects)
		r.Get("/projects/langs", sh.Languages)
		r.Get("/projects/tags", sh.Tags)
	})
	r.Get("/discord", sh.Discord)

	if d.Events != nil {
		r.Get("/events", d.Events.ServeHTTP)
	}

	return r
}
