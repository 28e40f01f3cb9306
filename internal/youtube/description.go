package youtube

import (
	"regexp"
	"strings"
)

// DescriptionInfo holds the song facts found in a video description.
type DescriptionInfo struct {
	Artist string
	Title  string
	Album  string
}

const providedPrefix = "Provided to YouTube by"

var (
	labelLine = regexp.MustCompile(`(?i)^\s*(Track|Song|Title|Utwór|Tytuł|Artist|Performer|Wykonawca|Artysta|Album)\s*[:：]\s*(.+?)\s*$`)

	// Labels glued onto the previous sentence in one-line descriptions.
	labelBreak = regexp.MustCompile(`(?i)\s*\b(Track|Song|Title|Utwór|Tytuł|Artist|Performer|Wykonawca|Artysta|Album)\s*[:：]`)
)

func labelField(label string) string {
	switch strings.ToLower(label) {
	case "track", "song", "title", "utwór", "tytuł":
		return "title"
	case "artist", "performer", "wykonawca", "artysta":
		return "artist"
	case "album":
		return "album"
	}
	return ""
}

// MineDescription scans a description for labelled song facts and for the
// "Provided to YouTube by" block that auto-generated uploads carry.
func MineDescription(desc string) DescriptionInfo {
	var info DescriptionInfo

	desc = strings.ReplaceAll(desc, "\r\n", "\n")
	if strings.TrimSpace(desc) == "" {
		return info
	}
	if !strings.Contains(desc, "\n") {
		desc = labelBreak.ReplaceAllString(desc, "\n$1:")
	}
	lines := strings.Split(desc, "\n")

	mineProvided(lines, &info)

	for _, line := range lines {
		m := labelLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		switch labelField(m[1]) {
		case "title":
			if info.Title == "" {
				info.Title = value
			}
		case "artist":
			if info.Artist == "" {
				info.Artist = value
			}
		case "album":
			if info.Album == "" {
				info.Album = value
			}
		}
	}
	return info
}

// The auto-generated block reads:
//
//	Provided to YouTube by <label>
//
//	<title> · <artist> · <artist>
//
//	<album>
func mineProvided(lines []string, info *DescriptionInfo) {
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), providedPrefix) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return
	}

	rest := nonEmpty(lines[start:])
	if len(rest) == 0 {
		return
	}

	parts := strings.Split(rest[0], "·")
	if len(parts) < 2 {
		return
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	info.Title = parts[0]
	info.Artist = strings.Join(parts[1:], ", ")

	if len(rest) > 1 && !strings.HasPrefix(rest[1], "℗") && !strings.HasPrefix(rest[1], "Released on") {
		info.Album = rest[1]
	}
}

func nonEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
