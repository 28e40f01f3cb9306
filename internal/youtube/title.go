package youtube

import (
	"regexp"
	"strings"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownTitle  = "Unknown Title"

	topicSuffix = " - Topic"
)

// Tried in order; the first match wins.
var titlePatterns = []*regexp.Regexp{
	// Artist - Title (Official Video) [HD]
	// The spaced form goes first so hyphenated names like Jay-Z stay whole.
	regexp.MustCompile(`^(.+?)\s+[-–—]\s+(.+?)(?:\s*[(\[].*?[)\]])*$`),
	regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+?)(?:\s*[(\[].*?[)\]])*$`),
	// Artist "Title"
	regexp.MustCompile(`^(.+?)\s*["“„](.+?)["”“]`),
	// Artist: Title
	regexp.MustCompile(`^(.+?)\s*:\s*(.+?)$`),
}

// Decompose splits a video title into artist and song title. Auto-generated artist
// channels ("Name - Topic") publish bare song titles, so the channel names the artist.
// When nothing matches, the artist is UnknownArtist and the whole title is the song.
func Decompose(videoTitle, channel string) (artist, title string) {
	videoTitle = strings.TrimSpace(videoTitle)
	channel = strings.TrimSpace(channel)

	if name, ok := strings.CutSuffix(channel, topicSuffix); ok && name != "" {
		return strings.TrimSpace(name), videoTitle
	}

	for _, p := range titlePatterns {
		m := p.FindStringSubmatch(videoTitle)
		if m == nil {
			continue
		}
		artist, title = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if artist != "" && title != "" {
			return artist, title
		}
	}

	return UnknownArtist, videoTitle
}
