// Package ai is the text-generation collaborator used by the renderer to
// polish section prose. Providers are selected by name; the rest of the
// application only sees the Generator interface.
package ai

import (
	"context"

	apperrors "github.com/lockdwn20/workmain/internal/errors"
)

// Generator produces text from a prompt. Implementations are expected to be
// safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Registry maps provider names to generators.
type Registry struct {
	providers map[string]Generator
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Generator)}
}

// Register adds a generator under its name, replacing any previous one.
func (r *Registry) Register(g Generator) {
	r.providers[g.Name()] = g
}

// Get returns the named generator, or an error when no provider is
// registered under that name.
func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.providers[name]
	if !ok {
		return nil, apperrors.Unsupported("AI provider", name)
	}
	return g, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
