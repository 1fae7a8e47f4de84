// Package models defines the domain types for folio.
package models

// Document is a Markdown file from the documents directory, parsed into the
// shape served to clients. It is rebuilt on every read.
type Document struct {
	Slug     string    `json:"slug"`
	Content  string    `json:"content"`
	Metadata *Metadata `json:"frontmatter"`
	Hidden   bool      `json:"hidden"`
}

// Metadata is the optional structured block at the top of a document.
// Every field may be absent independently of the others.
type Metadata struct {
	Title       *string  `json:"title"`
	Tags        []string `json:"tags"`
	Date        *string  `json:"date"` // opaque, never parsed as a time
	Description *string  `json:"description"`
}

// Project is an entry of the site's project catalogue.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Languages   []string `json:"languages"`
	Status      string   `json:"status"`
	Source      string   `json:"source"`
	Links       []Link   `json:"links"`
	Tags        []string `json:"tags"`
}

// Link is a named external link of a project.
type Link struct {
	Name string `json:"name"`
	Dest string `json:"dest"`
}
