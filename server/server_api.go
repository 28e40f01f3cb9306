package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"lyricsfinder/internal/lyrics"
	"lyricsfinder/internal/scrape"
	"lyricsfinder/internal/youtube"
)

const (
	autocompleteMinQuery = 2
	autocompleteLimit    = 10

	previewDescriptionLength = 100
)

type lyricsRequest struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

type lyricsResponse struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Lyrics   string           `json:"lyrics,omitempty"`
	Source   string           `json:"source,omitempty"`
	URL      string           `json:"url,omitempty"`
	Artist   string           `json:"artist"`
	Title    string           `json:"title"`
	DebugLog string           `json:"debug_log"`
	Attempts []scrape.Attempt `json:"attempts"`
}

// postApiLyrics looks lyrics up without storing them. The resolver's log output for
// this request is returned as debug_log.
func (s *server) postApiLyrics(w http.ResponseWriter, r *http.Request) {
	var req lyricsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Artist, req.Title = strings.TrimSpace(req.Artist), strings.TrimSpace(req.Title)
	if req.Artist == "" || req.Title == "" {
		writeJSONError(w, http.StatusBadRequest, "Artist and title are required")
		return
	}

	var debugLog bytes.Buffer
	log := captureLogger(loggerFrom(r.Context()), &debugLog)

	res, err := s.lyrics.Resolve(r.Context(), log, req.Artist, req.Title)

	resp := lyricsResponse{
		Artist:   req.Artist,
		Title:    req.Title,
		DebugLog: debugLog.String(),
		Attempts: []scrape.Attempt{},
	}
	if res != nil && res.Attempts != nil {
		resp.Attempts = res.Attempts
	}

	switch {
	case err == nil:
		resp.Success = true
		resp.Lyrics, resp.Source, resp.URL = res.Lyrics, res.Source, res.URL
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, lyrics.ErrNotFound) && res != nil && res.Unavailable():
		resp.Error = "All lyrics sources are unavailable"
		writeJSON(w, http.StatusBadGateway, resp)
	case errors.Is(err, lyrics.ErrNotFound):
		resp.Error = "No lyrics found"
		writeJSON(w, http.StatusNotFound, resp)
	default:
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

type previewRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

type previewResponse struct {
	Success     bool   `json:"success"`
	VideoID     string `json:"video_id"`
	WatchURL    string `json:"watch_url"`
	Title       string `json:"title"`
	SongTitle   string `json:"song_title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Thumbnail   string `json:"thumbnail"`
	ChannelName string `json:"channel_name"`
	Description string `json:"description"`
}

// postApiPreview resolves a YouTube link so the add form can be filled in before
// submitting.
func (s *server) postApiPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	info, err := s.videos.Resolve(r.Context(), loggerFrom(r.Context()), req.YouTubeURL)
	if errors.Is(err, youtube.ErrInvalidURL) {
		writeJSONError(w, http.StatusBadRequest, "Invalid YouTube URL")
		return
	} else if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Success:     true,
		VideoID:     info.VideoID,
		WatchURL:    info.WatchURL,
		Title:       info.Title,
		SongTitle:   suggestedTitle(info),
		Artist:      suggestedArtist(info),
		Album:       info.Album,
		Thumbnail:   info.Thumbnail,
		ChannelName: info.ChannelName,
		Description: excerpt(info.Description, previewDescriptionLength),
	})
}

type suggestion struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
	Query    string `json:"query,omitempty"`
	ID       uint64 `json:"id,omitempty"`
}

// getApiAutocomplete suggests song titles first, then artists, then songs whose lyrics
// match.
func (s *server) getApiAutocomplete(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	results := []suggestion{}

	if utf8.RuneCountInString(query) < autocompleteMinQuery {
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
		return
	}

	ctx := r.Context()
	seen := map[uint64]bool{}

	songs, err := s.db.SongsByTitle(ctx, query, autocompleteLimit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, song := range songs {
		seen[song.ID] = true
		results = append(results, suggestion{
			Type:     "song",
			Title:    song.Title,
			Subtitle: "Song by " + song.Artist,
			URL:      songPath(song),
			ID:       song.ID,
		})
	}

	if len(results) < autocompleteLimit {
		artists, err := s.db.ArtistsMatching(ctx, query, autocompleteLimit-len(results))
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, a := range artists {
			subtitle := fmt.Sprintf("%d songs", a.SongCount)
			if a.SongCount == 1 {
				subtitle = "1 song"
			}
			results = append(results, suggestion{
				Type:     "artist",
				Title:    a.Artist,
				Subtitle: subtitle,
				URL:      "/search?q=" + url.QueryEscape(a.Artist),
				Query:    a.Artist,
			})
		}
	}

	if len(results) < autocompleteLimit {
		songs, err := s.db.SongsByLyrics(ctx, query, autocompleteLimit)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, song := range songs {
			if len(results) >= autocompleteLimit {
				break
			}
			if seen[song.ID] {
				continue
			}
			seen[song.ID] = true
			results = append(results, suggestion{
				Type:     "lyrics",
				Title:    song.Title,
				Subtitle: "Lyrics match in song by " + song.Artist,
				URL:      songPath(song),
				ID:       song.ID,
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
