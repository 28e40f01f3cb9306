package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

const googleSearchURL = "https://www.google.com/search"

var anchorSelector = cascadia.MustCompile("a[href]")

// WebSearch queries a general-purpose search engine and returns the organic result links.
type WebSearch struct {
	client *Client

	// BaseURL is the results page, queried with ?q=.
	BaseURL string
}

func NewWebSearch(client *Client) *WebSearch {
	return &WebSearch{
		client:  client,
		BaseURL: googleSearchURL,
	}
}

// Links runs query and returns the absolute result links in page order.
func (w *WebSearch) Links(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en")

	doc, _, err := w.client.GetHTML(ctx, w.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return ResultLinks(doc), nil
}

// ResultLinks extracts result links from a search results page. Redirect wrappers of the
// form /url?q=<target> are unwrapped, links back into the engine are dropped and
// duplicates removed.
func ResultLinks(doc *html.Node) []string {
	var links []string
	seen := map[string]bool{}

	for _, a := range cascadia.QueryAll(doc, anchorSelector) {
		link := unwrapRedirect(Attr(a, "href"))
		if link == "" || seen[link] {
			continue
		}

		u, err := url.Parse(link)
		if err != nil || u.Host == "" {
			continue
		}
		if isEngineHost(u.Hostname()) {
			continue
		}

		seen[link] = true
		links = append(links, link)
	}
	return links
}

func unwrapRedirect(href string) string {
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return ""
		}
		q := u.Query()
		if target := q.Get("q"); strings.HasPrefix(target, "http") {
			return target
		}
		if target := q.Get("url"); strings.HasPrefix(target, "http") {
			return target
		}
		return ""
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return ""
}

func isEngineHost(host string) bool {
	host = strings.ToLower(host)
	return strings.Contains(host, "google.") ||
		strings.HasSuffix(host, "googleusercontent.com") ||
		strings.HasSuffix(host, "gstatic.com")
}

// HostMatches reports whether rawURL points at domain or one of its subdomains.
func HostMatches(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
