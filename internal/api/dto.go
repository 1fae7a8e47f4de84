package api

import (
	"context"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/paper"
	"github.com/starford/folio/internal/site"
)

// ErrorResponse is the body of every JSON error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ContactRequest is the request body of POST /site/contact.
type ContactRequest = site.ContactForm

// DocumentService resolves and lists documents.
type DocumentService interface {
	GetBySlug(ctx context.Context, slug string) (models.Document, error)
	ListAll(ctx context.Context) ([]models.Document, error)
}

// VersionResolver finds PaperMC download URLs.
type VersionResolver interface {
	LatestDownloadURL(ctx context.Context) (string, error)
	DownloadURL(ctx context.Context, v paper.Version) (string, error)
}

// ContactSender relays contact form submissions.
type ContactSender interface {
	Send(ctx context.Context, f site.ContactForm) error
}
