package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sqliteDriver is the sqlite3 driver with fold() registered on every connection.
// SQLite's own LOWER and LIKE only fold ASCII letters.
const sqliteDriver = "sqlite3_fold"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", fold, true)
		},
	})
}

// fold case-folds s with full Unicode rules. A Caser is not safe for concurrent use, so
// every call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

type database struct {
	db *gorm.DB
}

// slogWriter routes gorm's logger output through slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn("database", "message", fmt.Sprintf(format, args...))
}

func newDatabase(path string) (*database, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: sqliteDriver, DSN: path}), &gorm.Config{
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&Song{}, &TextContent{}, &AudioSource{}, &WordTimestamp{})
	if err != nil {
		return nil, err
	}

	return &database{
		db: db,
	}, nil
}

func (d *database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateSong inserts the song together with any attached lyrics and audio sources.
func (d *database) CreateSong(ctx context.Context, song *Song) error {
	return d.db.WithContext(ctx).Create(song).Error
}

func (d *database) UpdateSong(ctx context.Context, song *Song) error {
	return d.db.WithContext(ctx).Model(song).Select("title", "artist").Updates(song).Error
}

// SetLyrics updates the song's canonical lyrics in place or attaches new lyrics when it
// has none.
func (d *database) SetLyrics(ctx context.Context, song *Song, content string) error {
	if tc := song.Lyrics(); tc != nil {
		tc.Content = content
		return d.db.WithContext(ctx).Model(tc).Update("content", content).Error
	}

	tc := &TextContent{Content: content, ContentType: ContentTypeLyrics, Language: LanguageUnknown}
	return d.db.WithContext(ctx).Model(song).Association("TextContents").Append(tc)
}

// SetYouTube updates the song's canonical YouTube link in place or attaches a new one.
func (d *database) SetYouTube(ctx context.Context, song *Song, watchURL string) error {
	if as := song.YouTube(); as != nil {
		as.URL = watchURL
		return d.db.WithContext(ctx).Model(as).Update("url", watchURL).Error
	}

	as := &AudioSource{URL: watchURL, SourceType: SourceTypeYouTube}
	return d.db.WithContext(ctx).Model(song).Association("AudioSources").Append(as)
}

func (d *database) CountSongs(ctx context.Context) (int64, error) {
	var count int64
	return count, d.db.WithContext(ctx).Model(&Song{}).Count(&count).Error
}

// GetSongs lists songs newest first.
func (d *database) GetSongs(ctx context.Context, offset, limit int) ([]*Song, error) {
	var songs []*Song
	return songs, d.db.WithContext(ctx).Preload("AudioSources").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Offset(offset).Limit(limit).
		Find(&songs).Error
}

func (d *database) GetSong(ctx context.Context, id uint64) (*Song, error) {
	var song *Song
	return song, d.db.WithContext(ctx).
		Preload("TextContents", func(db *gorm.DB) *gorm.DB { return db.Order("text_contents.id") }).
		Preload("AudioSources", func(db *gorm.DB) *gorm.DB { return db.Order("audio_sources.id") }).
		First(&song, id).Error
}

// DeleteSong removes the song and its association rows in one transaction. The lyrics
// and audio rows themselves have their own lifetime and are kept.
func (d *database) DeleteSong(ctx context.Context, id uint64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		song := &Song{ID: id}

		err := tx.Model(song).Association("TextContents").Clear()
		if err != nil {
			return err
		}

		err = tx.Model(song).Association("AudioSources").Clear()
		if err != nil {
			return err
		}

		res := tx.Delete(&Song{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SearchSongs returns songs whose title, artist or lyrics contain query, ignoring case.
// One query with OR-ed conditions, so a song matching several ways is listed once.
func (d *database) SearchSongs(ctx context.Context, query string) ([]*Song, error) {
	pattern := likePattern(query)
	tx := d.db.WithContext(ctx)

	var songs []*Song
	return songs, tx.Preload("AudioSources").
		Where(`fold(title) LIKE ? ESCAPE '\'`, pattern).
		Or(`fold(artist) LIKE ? ESCAPE '\'`, pattern).
		Or("id IN (?)", lyricsMatches(tx, pattern)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Find(&songs).Error
}

func (d *database) SongsByTitle(ctx context.Context, query string, limit int) ([]*Song, error) {
	var songs []*Song
	return songs, d.db.WithContext(ctx).
		Where(`fold(title) LIKE ? ESCAPE '\'`, likePattern(query)).
		Order("title").Limit(limit).
		Find(&songs).Error
}

// ArtistsMatching groups matching artists with their song counts, most songs first.
func (d *database) ArtistsMatching(ctx context.Context, query string, limit int) ([]*ArtistCount, error) {
	var artists []*ArtistCount
	return artists, d.db.WithContext(ctx).Model(&Song{}).
		Select("artist, COUNT(id) AS song_count").
		Where(`fold(artist) LIKE ? ESCAPE '\'`, likePattern(query)).
		Group("artist").
		Order("song_count DESC, artist").
		Limit(limit).
		Scan(&artists).Error
}

func (d *database) SongsByLyrics(ctx context.Context, query string, limit int) ([]*Song, error) {
	tx := d.db.WithContext(ctx)

	var songs []*Song
	return songs, tx.
		Where("id IN (?)", lyricsMatches(tx, likePattern(query))).
		Order("title").Limit(limit).
		Find(&songs).Error
}

func lyricsMatches(tx *gorm.DB, pattern string) *gorm.DB {
	return tx.Table("song_text_association").
		Select("song_text_association.song_id").
		Joins("JOIN text_contents ON text_contents.id = song_text_association.text_content_id").
		Where("text_contents.content_type = ?", ContentTypeLyrics).
		Where(`fold(text_contents.content) LIKE ? ESCAPE '\'`, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern folds query for a case-insensitive substring LIKE against fold(column),
// with its wildcards escaped.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(fold(query)) + "%"
}
