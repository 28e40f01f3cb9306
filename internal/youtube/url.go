// Package youtube turns loosely formatted YouTube links into a video id and best-effort
// song metadata.
package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidURL = errors.New("invalid YouTube URL")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Ref identifies a single video.
type Ref struct {
	VideoID  string
	WatchURL string
}

// ParseURL extracts the video id from any of the common link shapes (watch, embed, v,
// shorts, live and youtu.be). Query parameters other than v are discarded.
func ParseURL(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, ErrInvalidURL
	}

	var id string
	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		id = idFromPath(u)
	case "youtu.be":
		id = firstSegment(u.Path)
	default:
		return Ref{}, ErrInvalidURL
	}

	if !videoIDPattern.MatchString(id) {
		return Ref{}, ErrInvalidURL
	}
	return Ref{VideoID: id, WatchURL: WatchURL(id)}, nil
}

func idFromPath(u *url.URL) string {
	if strings.TrimSuffix(u.Path, "/") == "/watch" {
		return u.Query().Get("v")
	}
	for _, prefix := range []string{"/embed/", "/v/", "/shorts/", "/live/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			return firstSegment(rest)
		}
	}
	return ""
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}

func ThumbnailURL(id string) string {
	return "https://i.ytimg.com/vi/" + id + "/mqdefault.jpg"
}
