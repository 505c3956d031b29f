package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/hailam/chessduel/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// Preferences are the settings remembered between sessions.
type Preferences struct {
	Username   string        `json:"username"`
	Difficulty string        `json:"difficulty"`
	HumanColor string        `json:"human_color"`
	Clock      string        `json:"clock"`
	BaseTime   time.Duration `json:"base_time"`
	Increment  time.Duration `json:"increment"`
	LastPlayed time.Time     `json:"last_played"`
}

// DefaultPreferences returns the preferences of a first session.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:   "Player",
		Difficulty: engine.Medium.String(),
		HumanColor: "white",
		Clock:      "none",
		BaseTime:   5 * time.Minute,
	}
}

// Stats are aggregate results of the matches a human took part in.
type Stats struct {
	GamesPlayed      int            `json:"games_played"`
	Wins             int            `json:"wins"`
	Losses           int            `json:"losses"`
	Draws            int            `json:"draws"`
	ByReason         map[string]int `json:"by_reason"`
	WinsByDifficulty map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime    time.Duration  `json:"total_play_time"`
	LongestStreak    int            `json:"longest_win_streak"`
	CurrentStreak    int            `json:"current_streak"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{
		ByReason:         make(map[string]int),
		WinsByDifficulty: make(map[string]int),
	}
}

// WinRate returns the win rate as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// MatchRecord is a finished match seen from the human's side.
type MatchRecord struct {
	Result     game.Result
	Human      board.Color
	Difficulty engine.Difficulty
	Duration   time.Duration
}

// Storage wraps BadgerDB.
type Storage struct {
	db *badger.DB
}

// Open opens the database under dataDir, or under the platform data
// directory when dataDir is empty.
func Open(dataDir string) (*Storage, error) {
	dbDir, err := DatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return open(badger.DefaultOptions(dbDir))
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true until MarkFirstLaunchComplete is called.
func (s *Storage) IsFirstLaunch() (bool, error) {
	first := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		first = false
		return nil
	})
	return first, err
}

// MarkFirstLaunchComplete records that the first session took place.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences stores prefs, stamping LastPlayed.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences returns the stored preferences, or the defaults if none
// were saved.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	return prefs, s.get(keyPreferences, prefs)
}

// SaveStats stores the statistics.
func (s *Storage) SaveStats(stats *Stats) error {
	return s.put(keyStats, stats)
}

// LoadStats returns the stored statistics, or empty ones.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	// Older records may lack the maps.
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	if stats.WinsByDifficulty == nil {
		stats.WinsByDifficulty = make(map[string]int)
	}
	return stats, nil
}

// RecordMatch adds a finished match to the statistics and returns them.
func (s *Storage) RecordMatch(rec MatchRecord) (*Stats, error) {
	stats, err := s.LoadStats()
	if err != nil {
		return nil, err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += rec.Duration
	stats.ByReason[string(rec.Result.Reason)]++

	switch rec.Result.Winner() {
	case board.NoColor:
		stats.Draws++
		stats.CurrentStreak = 0
	case rec.Human:
		stats.Wins++
		stats.CurrentStreak++
		stats.LongestStreak = max(stats.LongestStreak, stats.CurrentStreak)
		stats.WinsByDifficulty[rec.Difficulty.String()]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return stats, s.SaveStats(stats)
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v, leaving v untouched if the key
// is missing.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
