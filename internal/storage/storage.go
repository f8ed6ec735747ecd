package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "seq/game"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a game id has no record.
var ErrNotFound = errors.New("not found")

// Player kinds accepted in preferences and on the command line.
const (
	PlayerHuman   = "human"
	PlayerAI      = "ai"
	PlayerShuffle = "shuffle"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username   string            `json:"username"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Depth      int               `json:"depth"` // 0 = from difficulty
	White      string            `json:"white"`
	Black      string            `json:"black"`
	MaxPlies   int               `json:"max_plies"`
	LastPlayed time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:   "Player",
		Difficulty: engine.Medium,
		White:      PlayerHuman,
		Black:      PlayerAI,
		MaxPlies:   game.DefaultMaxPlies,
		LastPlayed: time.Now(),
	}
}

// SearchDepth returns the explicit depth, or the one implied by the difficulty.
func (p *UserPreferences) SearchDepth() int {
	if p.Depth > 0 {
		return p.Depth
	}
	if d, ok := engine.DifficultyDepths[p.Difficulty]; ok {
		return d
	}
	return engine.DefaultDepth
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Unfinished    int            `json:"unfinished"`
	TotalPlies    int            `json:"total_plies"`
	ByReason      map[string]int `json:"by_reason"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
	LongestGame   int            `json:"longest_game"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		ByReason: make(map[string]int),
	}
}

// AveragePlies returns the mean game length in plies.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("game sequence: %w", err)
	}

	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.db.Close()
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
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

// get decodes key into v. found is false when the key does not exist.
func (s *Storage) get(key string, v any) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.get(keyStats, stats)
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	return stats, err
}

// RecordGame updates statistics with a completed game
func (s *Storage) RecordGame(rec *game.Record) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += rec.Duration
	stats.TotalPlies += len(rec.Moves)
	stats.LongestGame = max(stats.LongestGame, len(rec.Moves))
	if rec.Reason != "" {
		stats.ByReason[rec.Reason]++
	}

	switch rec.Result {
	case game.WhiteWins:
		stats.WhiteWins++
	case game.BlackWins:
		stats.BlackWins++
	default:
		stats.Unfinished++
	}

	return s.SaveStats(stats)
}

// SaveGame stores rec under a new id, sets rec.ID and records its
// statistics.
func (s *Storage) SaveGame(rec *game.Record) (string, error) {
	n, err := s.seq.Next()
	if err != nil {
		return "", fmt.Errorf("next game id: %w", err)
	}

	rec.ID = fmt.Sprintf("%08d", n+1)
	if err := s.put(prefixGame+rec.ID, rec); err != nil {
		return "", fmt.Errorf("save game %s: %w", rec.ID, err)
	}

	return rec.ID, s.RecordGame(rec)
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id string) (*game.Record, error) {
	rec := &game.Record{}
	found, err := s.get(prefixGame+id, rec)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// ListGames returns every stored game in the order they were saved.
func (s *Storage) ListGames() ([]*game.Record, error) {
	var games []*game.Record
	prefix := []byte(prefixGame)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &game.Record{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}

// DeleteGame removes a stored game. Statistics are left untouched.
func (s *Storage) DeleteGame(id string) error {
	if _, err := s.LoadGame(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixGame + id))
	})
}
