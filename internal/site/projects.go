// Package site holds the project catalogue and the contact form relay.
package site

import (
	"fmt"
	"os"
	"slices"

	"github.com/titanous/json5"

	"github.com/starford/folio/internal/models"
)

// LoadProjects reads the JSON5 project catalogue.
func LoadProjects(path string) ([]models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read projects: %w", err)
	}
	var projects []models.Project
	if err := json5.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("site: parse projects %s: %w", path, err)
	}
	return projects, nil
}

// Tags returns the sorted set of tags used by any project.
func Tags(projects []models.Project) []string {
	return collect(projects, func(p models.Project) []string { return p.Tags })
}

// Languages returns the sorted set of languages used by any project.
func Languages(projects []models.Project) []string {
	return collect(projects, func(p models.Project) []string { return p.Languages })
}

func collect(projects []models.Project, field func(models.Project) []string) []string {
	out := []string{}
	for _, p := range projects {
		out = append(out, field(p)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
