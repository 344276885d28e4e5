package kanjivg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

const jishoSearchURL = "https://jisho.org/search/"

// svgURLRe matches the KanjiVG diagram URL embedded in a Jisho kanji page.
var svgURLRe = regexp.MustCompile(`d1w6u4xc3l95km\.cloudfront\.net/kanji-2015-03/[^"'\s]*\.svg`)

// Fetcher downloads KanjiVG stroke SVGs via the Jisho kanji search page.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a fetcher with a request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchSVG locates and downloads the stroke SVG for a glyph.
func (f *Fetcher) FetchSVG(ctx context.Context, glyph string) (string, error) {
	query := url.QueryEscape(glyph + " #kanji")
	page, err := f.get(ctx, jishoSearchURL+query)
	if err != nil {
		return "", fmt.Errorf("failed to fetch kanji page for %q: %w", glyph, err)
	}

	svgURL := svgURLRe.FindString(page)
	if svgURL == "" {
		return "", fmt.Errorf("no stroke SVG found for %q", glyph)
	}

	svgText, err := f.get(ctx, "https://"+svgURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch stroke SVG for %q: %w", glyph, err)
	}
	return svgText, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("non-200 status code: %d %s", resp.StatusCode, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
