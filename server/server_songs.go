package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"lyricsfinder/internal/lyrics"
	"lyricsfinder/internal/youtube"
)

func (s *server) getSongs(w http.ResponseWriter, r *http.Request) {
	total, err := s.db.CountSongs(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	p := newPagination(r, total, func(pg int) string {
		return fmt.Sprintf("/?page=%d", pg)
	})

	songs, err := s.db.GetSongs(r.Context(), p.Offset(), pageSize)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	data := s.pageData(r, "Songs")
	data["Songs"] = songs
	data["Pagination"] = p
	s.renderTemplate(w, http.StatusOK, "songs.html", data)
}

func (s *server) getSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	song, err := s.db.GetSong(r.Context(), id)
	if err != nil {
		s.renderDatabaseError(w, err)
		return
	}

	data := s.pageData(r, song.Title)
	data["Song"] = song
	s.renderTemplate(w, http.StatusOK, "song.html", data)
}

// songForm is what the add and edit forms submit.
type songForm struct {
	YouTubeURL string
	Title      string
	Artist     string
	Lyrics     string
}

func parseSongForm(r *http.Request) (*songForm, error) {
	err := r.ParseForm()
	if err != nil {
		return nil, err
	}

	return &songForm{
		YouTubeURL: strings.TrimSpace(r.Form.Get("youtube_url")),
		Title:      strings.TrimSpace(r.Form.Get("title")),
		Artist:     strings.TrimSpace(r.Form.Get("artist")),
		Lyrics:     strings.TrimSpace(r.Form.Get("lyrics")),
	}, nil
}

func (s *server) renderSongForm(w http.ResponseWriter, r *http.Request, code int, title string, song *Song, form *songForm, formErr string) {
	data := s.pageData(r, title)
	data["Song"] = song
	data["Form"] = form
	data["Error"] = formErr
	data["LyricsFetched"] = r.URL.Query().Get("lyrics_fetched") == "1"
	data["LyricsError"] = r.URL.Query().Get("lyrics_error") == "1"
	s.renderTemplate(w, code, "song-form.html", data)
}

func (s *server) getNewSong(w http.ResponseWriter, r *http.Request) {
	s.renderSongForm(w, r, http.StatusOK, "Add Song", nil, &songForm{
		YouTubeURL: r.URL.Query().Get("youtube_url"),
	}, "")
}

func (s *server) postNewSong(w http.ResponseWriter, r *http.Request) {
	form, err := parseSongForm(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	ref, err := youtube.ParseURL(form.YouTubeURL)
	if err != nil {
		s.renderSongForm(w, r, http.StatusBadRequest, "Add Song", nil, form, "Please enter a valid YouTube link.")
		return
	}

	ctx := r.Context()
	log := loggerFrom(ctx)

	title, artist := form.Title, form.Artist
	if title == "" || artist == "" {
		info, err := s.videos.Resolve(ctx, log, ref.WatchURL)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err)
			return
		}
		if title == "" {
			title = suggestedTitle(info)
		}
		if artist == "" {
			artist = suggestedArtist(info)
		}
	}

	text := form.Lyrics
	if text == "" {
		text, err = s.findLyrics(ctx, log, artist, title)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err)
			return
		}
	}

	song := &Song{
		Title:  title,
		Artist: artist,
		AudioSources: []*AudioSource{
			{URL: ref.WatchURL, SourceType: SourceTypeYouTube},
		},
	}
	if text != "" {
		song.TextContents = []*TextContent{
			{Content: text, ContentType: ContentTypeLyrics, Language: LanguageUnknown},
		}
	}

	err = s.db.CreateSong(ctx, song)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	log.Info("song added", "id", song.ID, "title", song.Title, "artist", song.Artist, "lyrics", text != "")
	go s.notifier.songAdded(song, s.songURL(song), text != "")

	http.Redirect(w, r, songPath(song), http.StatusSeeOther)
}

// findLyrics runs the lyrics resolver and returns "" when nothing was found. Only a
// canceled request is an error.
func (s *server) findLyrics(ctx context.Context, log *slog.Logger, artist, title string) (string, error) {
	res, err := s.lyrics.Resolve(ctx, log, artist, title)
	if errors.Is(err, lyrics.ErrNotFound) {
		log.Info("no lyrics found, continuing without", "artist", artist, "title", title)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res.Lyrics, nil
}

func (s *server) getEditSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	song, err := s.db.GetSong(r.Context(), id)
	if err != nil {
		s.renderDatabaseError(w, err)
		return
	}

	form := &songForm{
		Title:  song.Title,
		Artist: song.Artist,
	}
	if yt := song.YouTube(); yt != nil {
		form.YouTubeURL = yt.URL
	}
	if tc := song.Lyrics(); tc != nil {
		form.Lyrics = tc.Content
	}

	s.renderSongForm(w, r, http.StatusOK, "Edit Song", song, form, "")
}

func (s *server) postEditSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	log := loggerFrom(ctx)

	song, err := s.db.GetSong(ctx, id)
	if err != nil {
		s.renderDatabaseError(w, err)
		return
	}

	form, err := parseSongForm(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	if form.Title == "" || form.Artist == "" {
		s.renderSongForm(w, r, http.StatusBadRequest, "Edit Song", song, form, "Title and artist are required.")
		return
	}

	var ref youtube.Ref
	if form.YouTubeURL != "" {
		ref, err = youtube.ParseURL(form.YouTubeURL)
		if err != nil {
			s.renderSongForm(w, r, http.StatusBadRequest, "Edit Song", song, form, "Please enter a valid YouTube link.")
			return
		}
	}

	song.Title, song.Artist = form.Title, form.Artist
	err = s.db.UpdateSong(ctx, song)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	if ref.WatchURL != "" {
		err = s.db.SetYouTube(ctx, song, ref.WatchURL)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err)
			return
		}
	}

	if r.Form.Get("fetch_lyrics") == "1" {
		text, err := s.findLyrics(ctx, log, song.Artist, song.Title)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err)
			return
		}

		result := "lyrics_error=1"
		if text != "" {
			err = s.db.SetLyrics(ctx, song, text)
			if err != nil {
				s.renderError(w, http.StatusInternalServerError, err)
				return
			}
			result = "lyrics_fetched=1"
		}

		http.Redirect(w, r, songPath(song)+"/edit?"+result, http.StatusSeeOther)
		return
	}

	if form.Lyrics != "" {
		err = s.db.SetLyrics(ctx, song, form.Lyrics)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err)
			return
		}
	}

	http.Redirect(w, r, songPath(song), http.StatusSeeOther)
}

func (s *server) getDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	song, err := s.db.GetSong(r.Context(), id)
	if err != nil {
		s.renderDatabaseError(w, err)
		return
	}

	data := s.pageData(r, "Delete Song")
	data["Song"] = song
	s.renderTemplate(w, http.StatusOK, "song-delete.html", data)
}

func (s *server) postDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	err = s.db.DeleteSong(r.Context(), id)
	if err != nil {
		s.renderDatabaseError(w, err)
		return
	}

	loggerFrom(r.Context()).Info("song deleted", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) getSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var songs []*Song
	if query != "" {
		var err error
		songs, err = s.db.SearchSongs(r.Context(), query)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err)
			return
		}
	}

	data := s.pageData(r, "Search")
	data["Query"] = query
	data["Songs"] = songs
	s.renderTemplate(w, http.StatusOK, "search.html", data)
}

func (s *server) postSearch(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err)
		return
	}

	query := strings.TrimSpace(r.Form.Get("q"))
	http.Redirect(w, r, "/search?q="+url.QueryEscape(query), http.StatusSeeOther)
}

// suggestedTitle prefers the title inferred from the video over the raw video title.
func suggestedTitle(info *youtube.Info) string {
	switch {
	case info.SongTitle != "":
		return info.SongTitle
	case info.Title != "":
		return info.Title
	}
	return youtube.UnknownTitle
}

// suggestedArtist prefers the inferred artist over the channel name.
func suggestedArtist(info *youtube.Info) string {
	switch {
	case info.Artist != "":
		return info.Artist
	case info.ChannelName != "":
		return info.ChannelName
	}
	return youtube.UnknownArtist
}

func songPath(song *Song) string {
	return "/songs/" + strconv.FormatUint(song.ID, 10)
}

func (s *server) songURL(song *Song) string {
	return strings.TrimSuffix(s.baseURL, "/") + songPath(song)
}

func extractID(r *http.Request) (uint64, error) {
	idStr := chi.URLParam(r, "id")
	return strconv.ParseUint(idStr, 10, 64)
}
