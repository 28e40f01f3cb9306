// Package scrape holds the HTTP and HTML plumbing shared by the YouTube and lyrics
// resolvers.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// Lyrics sites answer the default Go user agent with 403s.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodySize = 10 * 1024 * 1024
)

// StatusError is returned when a server answers with anything but 200 OK.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// IsNotFound reports whether err is a 404 or 410 answer.
func IsNotFound(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusNotFound || se.Code == http.StatusGone
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get fetches rawURL and returns its body converted to UTF-8.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	if resp.ContentLength > maxBodySize {
		return nil, fmt.Errorf("GET %s: content length %d exceeds %d bytes", rawURL, resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: reading body: %w", rawURL, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", rawURL, maxBodySize)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "html") {
		return body, nil
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body, nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body, nil
	}
	return decoded, nil
}

// GetHTML fetches and parses an HTML page. The raw body is returned alongside the tree
// because some callers scan inline scripts with regular expressions.
func (c *Client) GetHTML(ctx context.Context, rawURL string) (*html.Node, []byte, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return doc, body, nil
}

func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}

	err = json.Unmarshal(body, v)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}
