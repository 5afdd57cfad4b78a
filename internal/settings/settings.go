// Package settings keeps the playback preferences that survive a restart:
// the volume and the loop mode. The playlist itself is rebuilt from the
// media catalog on every start and is not stored.
package settings

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/playback"
)

const (
	appName      = "mediaplayerd"
	dbFileName   = "state.db"
	saveDebounce = 500 * time.Millisecond
)

// Saved holds the persisted preferences.
type Saved struct {
	Volume   int
	LoopMode playback.LoopMode
}

// Manager stores preferences in SQLite. Changes are written after a short
// quiet period so a volume slider does not cause one write per step.
type Manager struct {
	db     *sql.DB
	logger *zap.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	current   Saved
	dirty     bool
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens (creating if needed) the settings database at path. An empty
// path selects DefaultPath.
func Open(path string, logger *zap.Logger) (*Manager, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	m := &Manager{
		db:      db,
		logger:  logger,
		current: Saved{Volume: playback.DefaultVolume, LoopMode: playback.LoopOff},
	}
	if saved, err := load(db); err != nil {
		db.Close()
		return nil, err
	} else if saved != nil {
		m.current = *saved
	}
	return m, nil
}

// Load returns the stored preferences, or nil if nothing was saved yet.
func (m *Manager) Load() (*Saved, error) {
	return load(m.db)
}

// VolumeChanged schedules a volume save.
func (m *Manager) VolumeChanged(level int) {
	m.schedule(func(s *Saved) { s.Volume = level })
}

// LoopModeChanged schedules a loop mode save.
func (m *Manager) LoopModeChanged(mode playback.LoopMode) {
	m.schedule(func(s *Saved) { s.LoopMode = mode })
}

// Close flushes any pending save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()

	// Flush pending state
	m.flush()
	return m.db.Close()
}

func (m *Manager) schedule(apply func(*Saved)) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	apply(&m.current)
	m.dirty = true

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, m.flush)
}

func (m *Manager) flush() {
	m.saveMu.Lock()
	if !m.dirty {
		m.saveMu.Unlock()
		return
	}
	s := m.current
	m.dirty = false
	m.saveMu.Unlock()

	if err := save(m.db, s); err != nil {
		m.logger.Warn(errmsg.Format(errmsg.OpSettingsSave, err))
	}
}

func load(db *sql.DB) (*Saved, error) {
	var (
		volume int
		mode   string
	)
	row := db.QueryRow(`SELECT volume, loop_mode FROM playback_settings WHERE id = 1`)
	err := row.Scan(&volume, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Saved{Volume: volume, LoopMode: playback.ParseLoopMode(mode)}, nil
}

func save(db *sql.DB, s Saved) error {
	_, err := db.Exec(`
		INSERT INTO playback_settings (id, volume, loop_mode, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			loop_mode = excluded.loop_mode,
			updated_at = excluded.updated_at
	`, s.Volume, s.LoopMode.String(), time.Now().Unix())
	return err
}

// Verify Manager implements playback.Preferences at compile time.
var _ playback.Preferences = (*Manager)(nil)
