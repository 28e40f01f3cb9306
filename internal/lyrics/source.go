package lyrics

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"lyricsfinder/internal/scrape"
)

// searchFunc queries a site's own search and returns absolute result links.
type searchFunc func(ctx context.Context, client *scrape.Client, searchURL, artist, title string) ([]string, error)

// field reads page metadata from an element's text, or from attr when set.
type field struct {
	sel  cascadia.Selector
	attr string
}

func textField(sel string) field {
	return field{sel: cascadia.MustCompile(sel)}
}

func attrField(sel, attr string) field {
	return field{sel: cascadia.MustCompile(sel), attr: attr}
}

// Source describes one lyrics site: how to guess a page URL, how to search it, which
// result links are lyrics pages, and where the lyrics and the song metadata live.
type Source struct {
	Name   string
	Domain string

	// BaseURL prefixes guessed page URLs; SearchURL is the site's search endpoint.
	BaseURL   string
	SearchURL string

	directURL func(base, artist, title string) string
	search    searchFunc
	link      *regexp.Regexp

	content []cascadia.Selector
	artist  []field
	title   []field
	heading []field
}

// pick returns the first link on the source's domain that looks like a lyrics page.
func (s *Source) pick(links []string) string {
	for _, l := range links {
		if scrape.HostMatches(l, s.Domain) && s.link.MatchString(l) {
			return l
		}
	}
	return ""
}

type pageMeta struct {
	artist  string
	title   string
	heading string
}

func (s *Source) metadata(doc *html.Node, body []byte, pageURL string) pageMeta {
	m := pageMeta{
		artist:  readField(doc, s.artist),
		title:   readField(doc, s.title),
		heading: readField(doc, s.heading),
	}
	if m.heading != "" || (m.artist != "" && m.title != "") {
		return m
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return m
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err == nil {
		m.heading = article.Title
	}
	return m
}

func readField(doc *html.Node, fields []field) string {
	for _, f := range fields {
		n := scrape.First(doc, f.sel)
		if n == nil {
			continue
		}

		var v string
		if f.attr != "" {
			v = scrape.Attr(n, f.attr)
		} else {
			v = scrape.Text(n)
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// Splits "Artist - Title" headings.
var headingSeparator = regexp.MustCompile(`\s[-–—]\s`)

// mismatch explains why the page does not describe the requested song, or returns ""
// when it does. Separate artist and title fields must both match; a combined heading
// must contain the title, and the artist too when it reads "Artist - Title". Pages
// without any metadata are accepted.
func (m pageMeta) mismatch(artist, title string) string {
	switch {
	case m.artist != "" && m.title != "":
		if !Matches(artist, m.artist) {
			return fmt.Sprintf("artist mismatch: page names %q", m.artist)
		}
		if !Matches(title, m.title) {
			return fmt.Sprintf("title mismatch: page names %q", m.title)
		}
	case m.heading != "":
		heading := Normalize(m.heading)
		if !containsWords(heading, Normalize(title)) {
			return fmt.Sprintf("heading mismatch: page names %q", m.heading)
		}
		if headingSeparator.MatchString(m.heading) && !containsWords(heading, Normalize(artist)) {
			return fmt.Sprintf("artist mismatch: page names %q", m.heading)
		}
	case m.title != "":
		if !Matches(title, m.title) {
			return fmt.Sprintf("title mismatch: page names %q", m.title)
		}
	}
	return ""
}

// htmlSearch builds a searchFunc that fetches a results page and collects the hrefs
// matched by sel, resolved against the results page URL.
func htmlSearch(build func(searchURL, artist, title string) string, sel string) searchFunc {
	anchors := cascadia.MustCompile(sel)

	return func(ctx context.Context, client *scrape.Client, searchURL, artist, title string) ([]string, error) {
		pageURL := build(searchURL, artist, title)
		doc, _, err := client.GetHTML(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		base, err := url.Parse(pageURL)
		if err != nil {
			return nil, err
		}

		var links []string
		for _, a := range cascadia.QueryAll(doc, anchors) {
			ref, err := url.Parse(scrape.Attr(a, "href"))
			if err != nil {
				continue
			}
			links = append(links, base.ResolveReference(ref).String())
		}
		return links, nil
	}
}
