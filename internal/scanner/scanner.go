package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

// Request carries all parameters required to read a channel.
type Request struct {
	Channel string
	Limit   int
	Options map[string]string
}

// Scanner captures a single post retrieval strategy (Bot API, web preview, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Post, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name; the error names the registered alternatives.
func (r *Registry) Resolve(name string) (Scanner, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if scanner, ok := r.scanners[key]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %q is not registered (have: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered scanners alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
