// Package lyrics looks song lyrics up on a fixed list of lyrics sites.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lyricsfinder/internal/scrape"
)

var ErrNotFound = errors.New("lyrics not found")

type Result struct {
	Lyrics string
	Source string
	URL    string

	Attempts []scrape.Attempt
}

// Unavailable reports whether no source could be reached at all, as opposed to every
// source answering without a match.
func (r *Result) Unavailable() bool {
	return scrape.AllUnavailable(r.Attempts)
}

type Resolver struct {
	client  *scrape.Client
	web     *scrape.WebSearch
	sources []*Source
}

// NewResolver returns a resolver over sources, or DefaultSources when none are given.
// web may be nil to skip the web-search strategy.
func NewResolver(client *scrape.Client, web *scrape.WebSearch, sources ...*Source) *Resolver {
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	return &Resolver{
		client:  client,
		web:     web,
		sources: sources,
	}
}

// Resolve walks the sources in order and returns the first validated lyrics. Each source
// tries a guessed URL, then its own search, then a site-restricted web search. The
// returned Result is non-nil even with ErrNotFound so the attempts can be inspected.
func (r *Resolver) Resolve(ctx context.Context, log *slog.Logger, artist, title string) (*Result, error) {
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	res := &Result{}

	log.Info("searching lyrics", "artist", artist, "title", title)
	for _, src := range r.sources {
		srcLog := log.With("source", src.Name)

		text, pageURL, ok := r.trySource(ctx, srcLog, src, artist, title, res)
		if scrape.Canceled(ctx) {
			return res, ctx.Err()
		}
		if ok {
			res.Lyrics, res.Source, res.URL = text, src.Name, pageURL
			srcLog.Info("lyrics found", "url", pageURL, "length", len(text))
			return res, nil
		}
		srcLog.Info("source exhausted")
	}

	log.Info("lyrics not found", "attempts", len(res.Attempts), "unavailable", res.Unavailable())
	return res, ErrNotFound
}

func (r *Resolver) trySource(ctx context.Context, log *slog.Logger, src *Source, artist, title string, res *Result) (string, string, bool) {
	if src.directURL != nil {
		u := src.directURL(src.BaseURL, artist, title)
		if text, ok := r.tryPage(ctx, log, src, "direct", u, artist, title, res); ok {
			return text, u, true
		}
		if scrape.Canceled(ctx) {
			return "", "", false
		}
	}

	if src.search != nil {
		links, err := src.search(ctx, r.client, src.SearchURL, artist, title)
		if text, u, ok := r.tryLinks(ctx, log, src, "site_search", links, err, artist, title, res); ok {
			return text, u, true
		}
		if scrape.Canceled(ctx) {
			return "", "", false
		}
	}

	if r.web != nil {
		query := fmt.Sprintf("site:%s %s %s", src.Domain, artist, title)
		links, err := r.web.Links(ctx, query)
		if text, u, ok := r.tryLinks(ctx, log, src, "web_search", links, err, artist, title, res); ok {
			return text, u, true
		}
	}
	return "", "", false
}

func (r *Resolver) tryLinks(ctx context.Context, log *slog.Logger, src *Source, strategy string, links []string, err error, artist, title string, res *Result) (string, string, bool) {
	if err != nil {
		log.Warn("search failed", "strategy", strategy, "error", err)
		res.Attempts = append(res.Attempts, scrape.Attempt{
			Source:   src.Name,
			Strategy: strategy,
			Status:   scrape.Classify(err),
			Reason:   err.Error(),
		})
		return "", "", false
	}

	link := src.pick(links)
	if link == "" {
		log.Info("no result link", "strategy", strategy, "results", len(links))
		res.Attempts = append(res.Attempts, scrape.Attempt{
			Source:   src.Name,
			Strategy: strategy,
			Status:   scrape.StatusNotFound,
			Reason:   "no matching result link",
		})
		return "", "", false
	}

	text, ok := r.tryPage(ctx, log, src, strategy, link, artist, title, res)
	return text, link, ok
}

func (r *Resolver) tryPage(ctx context.Context, log *slog.Logger, src *Source, strategy, pageURL, artist, title string, res *Result) (string, bool) {
	attempt := scrape.Attempt{Source: src.Name, Strategy: strategy, URL: pageURL}
	defer func() {
		res.Attempts = append(res.Attempts, attempt)
	}()

	log.Debug("fetching page", "strategy", strategy, "url", pageURL)
	doc, body, err := r.client.GetHTML(ctx, pageURL)
	if err != nil {
		attempt.Status, attempt.Reason = scrape.Classify(err), err.Error()
		log.Warn("page fetch failed", "strategy", strategy, "url", pageURL, "error", err)
		return "", false
	}

	text := scrape.FirstText(doc, src.content...)
	if text == "" {
		attempt.Status, attempt.Reason = scrape.StatusNotFound, "no lyrics on page"
		log.Info("no lyrics on page", "strategy", strategy, "url", pageURL)
		return "", false
	}

	if reason := src.metadata(doc, body, pageURL).mismatch(artist, title); reason != "" {
		attempt.Status, attempt.Reason = scrape.StatusNotFound, reason
		log.Info("page rejected", "strategy", strategy, "url", pageURL, "reason", reason)
		return "", false
	}

	attempt.Status = scrape.StatusFound
	return text, true
}
