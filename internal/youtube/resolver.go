package youtube

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"lyricsfinder/internal/scrape"
)

const (
	oEmbedURL    = "https://www.youtube.com/oembed"
	watchPageURL = "https://www.youtube.com/watch"

	sourceName = "youtube"
)

// Info is everything learned about a video. Artist, SongTitle and Album are empty when
// they could not be inferred.
type Info struct {
	VideoID     string
	WatchURL    string
	Title       string
	ChannelName string
	Thumbnail   string
	Description string

	Artist    string
	SongTitle string
	Album     string

	Attempts []scrape.Attempt
}

type Resolver struct {
	client *scrape.Client

	OEmbedURL    string
	WatchPageURL string
}

func NewResolver(client *scrape.Client) *Resolver {
	return &Resolver{
		client:       client,
		OEmbedURL:    oEmbedURL,
		WatchPageURL: watchPageURL,
	}
}

// Resolve parses rawURL and gathers metadata, first from the oEmbed endpoint and then
// from the watch page. Only an unparseable URL or a canceled context is an error; when
// both lookups fail the Info carries just the id, watch URL and thumbnail.
func (r *Resolver) Resolve(ctx context.Context, log *slog.Logger, rawURL string) (*Info, error) {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	info := &Info{
		VideoID:   ref.VideoID,
		WatchURL:  ref.WatchURL,
		Thumbnail: ThumbnailURL(ref.VideoID),
	}
	log = log.With("video_id", ref.VideoID)

	r.fromOEmbed(ctx, log, info)
	if scrape.Canceled(ctx) {
		return nil, ctx.Err()
	}

	if info.Title == "" || info.ChannelName == "" || info.Description == "" {
		r.fromWatchPage(ctx, log, info)
		if scrape.Canceled(ctx) {
			return nil, ctx.Err()
		}
	}

	info.infer()
	log.Debug("video resolved", "title", info.Title, "channel", info.ChannelName,
		"artist", info.Artist, "song_title", info.SongTitle, "album", info.Album)
	return info, nil
}

type oEmbedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

func (r *Resolver) fromOEmbed(ctx context.Context, log *slog.Logger, info *Info) {
	params := url.Values{}
	params.Set("url", info.WatchURL)
	params.Set("format", "json")
	u := r.OEmbedURL + "?" + params.Encode()

	attempt := scrape.Attempt{Source: sourceName, Strategy: "oembed", URL: u}

	var resp oEmbedResponse
	err := r.client.GetJSON(ctx, u, &resp)
	if err != nil {
		attempt.Status, attempt.Reason = scrape.Classify(err), err.Error()
		log.Warn("oembed lookup failed", "error", err)
		info.Attempts = append(info.Attempts, attempt)
		return
	}

	info.Title = strings.TrimSpace(resp.Title)
	info.ChannelName = strings.TrimSpace(resp.AuthorName)

	attempt.Status = scrape.StatusFound
	if info.Title == "" && info.ChannelName == "" {
		attempt.Status, attempt.Reason = scrape.StatusNotFound, "empty oembed response"
	}
	info.Attempts = append(info.Attempts, attempt)
}

var (
	metaOGTitle       = cascadia.MustCompile(`meta[property="og:title"]`)
	metaTitle         = cascadia.MustCompile(`meta[name="title"]`)
	metaOGDescription = cascadia.MustCompile(`meta[property="og:description"]`)
	metaDescription   = cascadia.MustCompile(`meta[name="description"]`)
	itempropAuthor    = cascadia.MustCompile(`[itemprop="author"] [itemprop="name"]`)
	ldJSON            = cascadia.MustCompile(`script[type="application/ld+json"]`)

	// Fields of the videoDetails object inside the embedded player response.
	playerTitle       = regexp.MustCompile(`"videoDetails":\{[^{}]*?"title":"((?:[^"\\]|\\.)*)"`)
	playerAuthor      = regexp.MustCompile(`(?s)"videoDetails":\{.*?"author":"((?:[^"\\]|\\.)*)"`)
	playerDescription = regexp.MustCompile(`"shortDescription":"((?:[^"\\]|\\.)*)"`)
)

func (r *Resolver) fromWatchPage(ctx context.Context, log *slog.Logger, info *Info) {
	u := r.WatchPageURL + "?v=" + url.QueryEscape(info.VideoID)
	attempt := scrape.Attempt{Source: sourceName, Strategy: "watch_page", URL: u}

	doc, body, err := r.client.GetHTML(ctx, u)
	if err != nil {
		attempt.Status, attempt.Reason = scrape.Classify(err), err.Error()
		log.Warn("watch page fetch failed", "error", err)
		info.Attempts = append(info.Attempts, attempt)
		return
	}

	page := parseWatchPage(doc, body)
	if page.title == "" && page.channel == "" && page.description == "" {
		attempt.Status, attempt.Reason = scrape.StatusNotFound, "no metadata on watch page"
		log.Info("watch page has no metadata")
		info.Attempts = append(info.Attempts, attempt)
		return
	}

	if info.Title == "" {
		info.Title = page.title
	}
	if info.ChannelName == "" {
		info.ChannelName = page.channel
	}
	if info.Description == "" {
		info.Description = page.description
	}

	attempt.Status = scrape.StatusFound
	info.Attempts = append(info.Attempts, attempt)
}

type watchPage struct {
	title       string
	channel     string
	description string
}

// parseWatchPage prefers the player response, which carries the full description,
// over ld+json and meta tags.
func parseWatchPage(doc *html.Node, body []byte) watchPage {
	var p watchPage
	ld := parseLDJSON(doc)

	p.title = firstNonEmpty(
		playerField(playerTitle, body),
		scrape.Attr(scrape.First(doc, metaOGTitle), "content"),
		scrape.Attr(scrape.First(doc, metaTitle), "content"),
		ld.name,
	)
	p.channel = firstNonEmpty(
		playerField(playerAuthor, body),
		scrape.Attr(scrape.First(doc, itempropAuthor), "content"),
		ld.author,
	)
	p.description = firstNonEmpty(
		playerField(playerDescription, body),
		ld.description,
		scrape.Attr(scrape.First(doc, metaOGDescription), "content"),
		scrape.Attr(scrape.First(doc, metaDescription), "content"),
	)
	return p
}

func playerField(re *regexp.Regexp, body []byte) string {
	m := re.FindSubmatch(body)
	if m == nil {
		return ""
	}

	var s string
	err := json.Unmarshal([]byte(`"`+string(m[1])+`"`), &s)
	if err != nil {
		return ""
	}
	return s
}

type ldVideo struct {
	name        string
	author      string
	description string
}

func parseLDJSON(doc *html.Node) ldVideo {
	var v ldVideo
	for _, n := range cascadia.QueryAll(doc, ldJSON) {
		if n.FirstChild == nil {
			continue
		}

		var obj struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			Author      json.RawMessage `json:"author"`
		}
		if err := json.Unmarshal([]byte(n.FirstChild.Data), &obj); err != nil {
			continue
		}

		v.name = firstNonEmpty(v.name, obj.Name)
		v.description = firstNonEmpty(v.description, obj.Description)
		v.author = firstNonEmpty(v.author, ldAuthor(obj.Author))
	}
	return v
}

// ldAuthor accepts both "author": "Name" and "author": {"name": "Name"}.
func ldAuthor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Name
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// infer derives artist, song title and album. Description facts replace decomposition
// results only when those are placeholders or just echo the channel or video title.
func (info *Info) infer() {
	if info.Title == "" && info.ChannelName == "" && info.Description == "" {
		return
	}

	artist, title := Decompose(info.Title, info.ChannelName)
	if artist == UnknownArtist {
		artist = info.ChannelName
	}
	if title == UnknownTitle {
		title = ""
	}

	mined := MineDescription(info.Description)
	if mined.Artist != "" && (artist == "" || artist == info.ChannelName) {
		artist = mined.Artist
	}
	if mined.Title != "" && (title == "" || title == info.Title) {
		title = mined.Title
	}

	info.Artist = strings.TrimSpace(artist)
	info.SongTitle = strings.TrimSpace(title)
	info.Album = mined.Album
}
