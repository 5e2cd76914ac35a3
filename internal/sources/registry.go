package sources

import (
	"fmt"
	"time"

	"wallshift/internal/models"
	"wallshift/internal/structures"
)

// Registry holds the four adapter instances and builds fallback chains.
type Registry struct {
	byTag map[string]Source
}

func NewRegistry(conf *structures.Config, client *Client) *Registry {
	r := &Registry{byTag: make(map[string]Source, 4)}
	for _, src := range []Source{
		NewSpotlight(client),
		NewUnsplash(client, conf.Sources.UnsplashKey),
		NewWallhaven(client),
		NewPexels(client, conf.Sources.PexelsKey),
	} {
		r.byTag[src.Tag()] = src
	}
	return r
}

// NewStaticRegistry wraps pre-built adapters. The fallback chain rules
// are the same as for the default registry.
func NewStaticRegistry(srcs ...Source) *Registry {
	r := &Registry{byTag: make(map[string]Source, len(srcs))}
	for _, src := range srcs {
		r.byTag[src.Tag()] = src
	}
	return r
}

func (r *Registry) Get(tag string) (Source, error) {
	src, ok := r.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", tag)
	}
	return src, nil
}

// Chain returns the silent-path fallback order for the active source: the
// active adapter first, then the zero-configuration spotlight adapter.
// The fallback is unconditional and data-driven; failure of the active
// source never blocks the next link.
func (r *Registry) Chain(active string) []Source {
	chain := make([]Source, 0, 2)
	if src, ok := r.byTag[active]; ok {
		chain = append(chain, src)
	}
	if active != models.SourceSpotlight {
		chain = append(chain, r.byTag[models.SourceSpotlight])
	}
	return chain
}

// pickTemplate selects a curated query pseudo-randomly; variety matters
// more than distribution quality here.
func pickTemplate(templates []string) string {
	if len(templates) == 0 {
		return ""
	}
	return templates[int(time.Now().UnixNano()/int64(time.Second))%len(templates)]
}
