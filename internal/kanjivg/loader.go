package kanjivg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knagaya/kakitori/internal/model"
)

// Loader resolves glyphs to characters, cache first, network second.
type Loader struct {
	cachePath string
	fetcher   *Fetcher
	cache     map[string][]RawStroke
}

// NewLoader opens the JSON stroke cache at path. A missing cache file starts
// empty; a corrupt one is an error so bad stroke data is never silently used.
func NewLoader(cachePath string, fetcher *Fetcher) (*Loader, error) {
	l := &Loader{
		cachePath: cachePath,
		fetcher:   fetcher,
		cache:     map[string][]RawStroke{},
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read stroke cache: %w", err)
	}
	if err := json.Unmarshal(data, &l.cache); err != nil {
		return nil, fmt.Errorf("failed to decode stroke cache: %w", err)
	}
	return l, nil
}

// Cached reports whether stroke data for the glyph is already cached.
func (l *Loader) Cached(glyph string) bool {
	_, ok := l.cache[glyph]
	return ok
}

// Load returns the character for a glyph, fetching and caching its stroke
// data on a miss.
func (l *Loader) Load(ctx context.Context, glyph string) (model.Character, error) {
	if raw, ok := l.cache[glyph]; ok {
		return Build(glyph, raw)
	}
	if l.fetcher == nil {
		return model.Character{}, fmt.Errorf("no stroke data cached for %q", glyph)
	}
	svgText, err := l.fetcher.FetchSVG(ctx, glyph)
	if err != nil {
		return model.Character{}, err
	}
	raw, err := Extract(svgText, glyph)
	if err != nil {
		return model.Character{}, err
	}
	ch, err := Build(glyph, raw)
	if err != nil {
		return model.Character{}, err
	}
	l.cache[glyph] = raw
	if err := l.saveCache(); err != nil {
		// Cache write failures do not block practice; the in-memory copy
		// still serves this run.
		_ = err
	}
	return ch, nil
}

func (l *Loader) saveCache() error {
	dir := filepath.Dir(l.cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(l.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stroke cache: %w", err)
	}
	if err := os.WriteFile(l.cachePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stroke cache: %w", err)
	}
	return nil
}
