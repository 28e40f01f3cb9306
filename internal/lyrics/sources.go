package lyrics

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"

	"lyricsfinder/internal/scrape"
)

// DefaultSources returns the sources in priority order.
func DefaultSources() []*Source {
	return []*Source{Tekstowo(), Genius(), AZLyrics()}
}

// Tekstowo covers Polish repertoire best. Pages live at /piosenka,<artist>,<title>.html
// with underscores between words.
func Tekstowo() *Source {
	return &Source{
		Name:      "tekstowo",
		Domain:    "tekstowo.pl",
		BaseURL:   "https://www.tekstowo.pl",
		SearchURL: "https://www.tekstowo.pl",

		directURL: func(base, artist, title string) string {
			return base + "/piosenka," + slug(artist, "_") + "," + slug(title, "_") + ".html"
		},
		search: htmlSearch(func(searchURL, artist, title string) string {
			return searchURL + "/szukaj,wykonawca," + url.QueryEscape(artist) + ",tytul," + url.QueryEscape(title) + ".html"
		}, `a[href*="/piosenka,"]`),
		link: regexp.MustCompile(`/piosenka,[^/]+\.html$`),

		content: []cascadia.Selector{
			cascadia.MustCompile(`#songText div.inner-text`),
			cascadia.MustCompile(`div.song-text div.inner-text`),
			cascadia.MustCompile(`div.inner-text`),
		},
		heading: []field{
			textField(`div.col-lg-7 h1`),
			textField(`h1.strong`),
			attrField(`meta[property="og:title"]`, "content"),
		},
	}
}

// Genius pages live at /<Artist>-<title>-lyrics; its JSON search API is public.
func Genius() *Source {
	return &Source{
		Name:      "genius",
		Domain:    "genius.com",
		BaseURL:   "https://genius.com",
		SearchURL: "https://genius.com/api/search/song",

		directURL: func(base, artist, title string) string {
			return base + "/" + capitalize(slug(artist+" "+title, "-")) + "-lyrics"
		},
		search: geniusSearch,
		link:   regexp.MustCompile(`-lyrics/?$`),

		content: []cascadia.Selector{
			cascadia.MustCompile(`div[data-lyrics-container="true"]`),
			cascadia.MustCompile(`div.lyrics`),
			cascadia.MustCompile(`div[class^="Lyrics__Container"]`),
		},
		artist: []field{
			textField(`a[class*="HeaderArtistAndTracklist__Artist"]`),
			textField(`div[class*="SongHeader"] a[href*="/artists/"]`),
		},
		title: []field{
			textField(`h1[class*="SongHeader"] span`),
			textField(`h1[class*="SongHeader"]`),
		},
		heading: []field{
			attrField(`meta[property="og:title"]`, "content"),
		},
	}
}

type geniusSearchResponse struct {
	Response struct {
		Sections []struct {
			Hits []struct {
				Result struct {
					URL string `json:"url"`
				} `json:"result"`
			} `json:"hits"`
		} `json:"sections"`
	} `json:"response"`
}

func geniusSearch(ctx context.Context, client *scrape.Client, searchURL, artist, title string) ([]string, error) {
	params := url.Values{}
	params.Set("q", artist+" "+title)

	var resp geniusSearchResponse
	err := client.GetJSON(ctx, searchURL+"?"+params.Encode(), &resp)
	if err != nil {
		return nil, err
	}

	var links []string
	for _, section := range resp.Response.Sections {
		for _, hit := range section.Hits {
			if hit.Result.URL != "" {
				links = append(links, hit.Result.URL)
			}
		}
	}
	return links, nil
}

// AZLyrics pages live at /lyrics/<artist>/<title>.html with every non-alphanumeric
// character removed and a leading "the" dropped from the artist.
func AZLyrics() *Source {
	return &Source{
		Name:      "azlyrics",
		Domain:    "azlyrics.com",
		BaseURL:   "https://www.azlyrics.com",
		SearchURL: "https://search.azlyrics.com/search.php",

		directURL: func(base, artist, title string) string {
			a := strings.TrimPrefix(Normalize(artist), "the ")
			return base + "/lyrics/" + slug(a, "") + "/" + slug(title, "") + ".html"
		},
		search: htmlSearch(func(searchURL, artist, title string) string {
			params := url.Values{}
			params.Set("q", artist+" "+title)
			return searchURL + "?" + params.Encode()
		}, `a[href*="/lyrics/"]`),
		link: regexp.MustCompile(`/lyrics/[^/]+/[^/]+\.html$`),

		content: []cascadia.Selector{
			cascadia.MustCompile(`div.ringtone ~ div:not([class])`),
			cascadia.MustCompile(`div.col-xs-12.col-lg-8.text-center > div:not([class])`),
		},
		artist: []field{
			textField(`div.lyricsh h2 b`),
			textField(`div.lyricsh h2`),
		},
		title: []field{
			textField(`div.col-xs-12.col-lg-8.text-center > b`),
		},
		heading: []field{
			textField(`title`),
		},
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
