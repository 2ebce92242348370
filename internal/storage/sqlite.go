// Package storage persists fitted beat grids per track in a local SQLite
// database, so a track analysed once can be re-rendered without re-running
// the estimator and search.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/julianallchin/luma/pkg/beatgrid"
)

const DefaultDBFile = "luma.sqlite3"

var ErrNotFound = errors.New("track beats not found")

// TrackBeats is one stored grid. Beat and downbeat timestamp sequences are
// kept as JSON arrays in text columns, matching the track_beats table of the
// desktop app's local database.
type TrackBeats struct {
	TrackID        string  `gorm:"primaryKey;type:varchar(36)" json:"track_id"`
	BeatsJSON      string  `gorm:"column:beats_json" json:"-"`
	DownbeatsJSON  string  `gorm:"column:downbeats_json" json:"-"`
	BPM            float64 `gorm:"column:bpm" json:"bpm"`
	DownbeatOffset float64 `gorm:"column:downbeat_offset" json:"downbeat_offset"`
	BeatsPerBar    int     `gorm:"column:beats_per_bar" json:"beats_per_bar"`
	UpdatedAt      time.Time
}

// DBClient wraps the gorm handle plus the underlying sql.DB for lifecycle
// control.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// NewDBClient opens the database at LUMA_DB_PATH, or DefaultDBFile when the
// variable is unset.
func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("LUMA_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

// NewDBClientWithPath opens (and migrates) the database at the given path.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	if err := db.AutoMigrate(&TrackBeats{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// UpsertTrackBeats stores the grid for a track, replacing any previous grid.
func (c *DBClient) UpsertTrackBeats(trackID string, res *beatgrid.Result) error {
	if c == nil || c.DB == nil {
		return errors.New("db client is nil")
	}
	beats, err := json.Marshal(res.Beats)
	if err != nil {
		return fmt.Errorf("encoding beats: %w", err)
	}
	downbeats, err := json.Marshal(res.Downbeats)
	if err != nil {
		return fmt.Errorf("encoding downbeats: %w", err)
	}

	rec := TrackBeats{
		TrackID:        trackID,
		BeatsJSON:      string(beats),
		DownbeatsJSON:  string(downbeats),
		BPM:            res.BPM,
		DownbeatOffset: res.DownbeatOffset,
		BeatsPerBar:    res.BeatsPerBar,
	}
	if err := c.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("upserting track beats: %w", err)
	}
	return nil
}

// HasTrackBeats reports whether a grid is stored for the track.
func (c *DBClient) HasTrackBeats(trackID string) (bool, error) {
	if c == nil || c.DB == nil {
		return false, errors.New("db client is nil")
	}
	var count int64
	if err := c.DB.Model(&TrackBeats{}).Where("track_id = ?", trackID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("querying track beats: %w", err)
	}
	return count > 0, nil
}

// GetTrackBeats loads the stored grid for a track.
func (c *DBClient) GetTrackBeats(trackID string) (*TrackBeats, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New("db client is nil")
	}
	var rec TrackBeats
	err := c.DB.Where("track_id = ?", trackID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying track beats: %w", err)
	}
	return &rec, nil
}

// ListTrackBeats returns every stored grid, most recently updated first.
func (c *DBClient) ListTrackBeats() ([]TrackBeats, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New("db client is nil")
	}
	var recs []TrackBeats
	if err := c.DB.Order("updated_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing track beats: %w", err)
	}
	return recs, nil
}

// DeleteTrackBeats removes a stored grid. Deleting a missing track is not an
// error.
func (c *DBClient) DeleteTrackBeats(trackID string) error {
	if c == nil || c.DB == nil {
		return errors.New("db client is nil")
	}
	if err := c.DB.Where("track_id = ?", trackID).Delete(&TrackBeats{}).Error; err != nil {
		return fmt.Errorf("deleting track beats: %w", err)
	}
	return nil
}

// Timestamps decodes the stored beat and downbeat sequences.
func (t *TrackBeats) Timestamps() (beats, downbeats []float64, err error) {
	if err := json.Unmarshal([]byte(t.BeatsJSON), &beats); err != nil {
		return nil, nil, fmt.Errorf("decoding beats: %w", err)
	}
	if err := json.Unmarshal([]byte(t.DownbeatsJSON), &downbeats); err != nil {
		return nil, nil, fmt.Errorf("decoding downbeats: %w", err)
	}
	return beats, downbeats, nil
}
