package main

import (
	"lyricsfinder/internal/youtube"
)

const (
	ContentTypeLyrics = "lyrics"
	SourceTypeYouTube = "youtube"

	LanguageUnknown = "unknown"
)

type Song struct {
	ID     uint64 `gorm:"primaryKey"`
	Title  string `gorm:"not null"`
	Artist string `gorm:"not null"`

	TextContents []*TextContent `gorm:"many2many:song_text_association;"`
	AudioSources []*AudioSource `gorm:"many2many:song_audio_association;"`
}

func (s *Song) String() string {
	str := `"` + s.Title + `"`
	if s.Artist != "" {
		str += ` by ` + s.Artist
	}
	return str
}

// Lyrics returns the canonical lyrics: the first text content of type lyrics.
func (s *Song) Lyrics() *TextContent {
	for _, tc := range s.TextContents {
		if tc.ContentType == ContentTypeLyrics {
			return tc
		}
	}
	return nil
}

// YouTube returns the canonical audio source: the first YouTube link.
func (s *Song) YouTube() *AudioSource {
	for _, as := range s.AudioSources {
		if as.SourceType == SourceTypeYouTube {
			return as
		}
	}
	return nil
}

// VideoID is the id of the canonical YouTube video, or "" when there is none.
func (s *Song) VideoID() string {
	yt := s.YouTube()
	if yt == nil {
		return ""
	}
	ref, err := youtube.ParseURL(yt.URL)
	if err != nil {
		return ""
	}
	return ref.VideoID
}

func (s *Song) EmbedURL() string {
	if id := s.VideoID(); id != "" {
		return youtube.EmbedURL(id)
	}
	return ""
}

func (s *Song) Thumbnail() string {
	if id := s.VideoID(); id != "" {
		return youtube.ThumbnailURL(id)
	}
	return ""
}

type TextContent struct {
	ID          uint64 `gorm:"primaryKey"`
	Content     string `gorm:"type:text;not null"`
	ContentType string `gorm:"not null"`
	Language    string

	WordTimestamps []*WordTimestamp
}

type AudioSource struct {
	ID         uint64 `gorm:"primaryKey"`
	URL        string `gorm:"not null"`
	SourceType string `gorm:"not null"`
}

// WordTimestamp maps a word of a text content to a span of its audio. The table is
// migrated but nothing writes it yet.
type WordTimestamp struct {
	ID            uint64  `gorm:"primaryKey"`
	TextContentID uint64  `gorm:"index"`
	Word          string  `gorm:"not null"`
	StartTime     float64 `gorm:"not null"`
	EndTime       float64 `gorm:"not null"`
}

type ArtistCount struct {
	Artist    string
	SongCount int64
}
