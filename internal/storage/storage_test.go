package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/hailam/chessduel/internal/game"
	"github.com/hailam/chessduel/internal/testutil"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, prefs, DefaultPreferences())

	prefs.Username = "alice"
	prefs.Difficulty = "hard"
	prefs.Clock = "fischer"
	prefs.Increment = 2 * time.Second
	testutil.AssertNoError(t, s.SavePreferences(prefs))
	testutil.AssertFalse(t, prefs.LastPlayed.IsZero())

	loaded, err := s.LoadPreferences()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, loaded.Username, "alice")
	testutil.AssertEqual(t, loaded.Difficulty, "hard")
	testutil.AssertEqual(t, loaded.Increment, 2*time.Second)
	testutil.AssertTrue(t, loaded.LastPlayed.Equal(prefs.LastPlayed))
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, first)

	testutil.AssertNoError(t, s.MarkFirstLaunchComplete())
	first, err = s.IsFirstLaunch()
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, first)
}

func TestRecordMatch(t *testing.T) {
	s := openTest(t)
	win := game.Result{Outcome: game.WhiteWins, Reason: game.ByCheckmate}
	loss := game.Result{Outcome: game.BlackWins, Reason: game.ByTime}
	draw := game.Result{Outcome: game.Draw, Reason: game.ByStalemate}

	for _, res := range []game.Result{win, win, loss, win, draw} {
		_, err := s.RecordMatch(MatchRecord{
			Result:     res,
			Human:      board.White,
			Difficulty: engine.Hard,
			Duration:   time.Minute,
		})
		testutil.AssertNoError(t, err)
	}

	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats, &Stats{
		GamesPlayed:      5,
		Wins:             3,
		Losses:           1,
		Draws:            1,
		ByReason:         map[string]int{"checkmate": 3, "time": 1, "stalemate": 1},
		WinsByDifficulty: map[string]int{"hard": 3},
		TotalPlayTime:    5 * time.Minute,
		LongestStreak:    2,
		CurrentStreak:    0,
	})
	testutil.AssertEqual(t, stats.WinRate(), 60.0)
}

func TestStatsFromBlackSide(t *testing.T) {
	s := openTest(t)
	stats, err := s.RecordMatch(MatchRecord{
		Result: game.Result{Outcome: game.BlackWins, Reason: game.ByCheckmate},
		Human:  board.Black,
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Wins, 1)
	testutil.AssertEqual(t, stats.CurrentStreak, 1)
}

func TestWinRateEmpty(t *testing.T) {
	testutil.AssertEqual(t, NewStats().WinRate(), 0.0)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.MarkFirstLaunchComplete())
	testutil.AssertNoError(t, s.Close())

	_, err = os.Stat(filepath.Join(dir, "db"))
	testutil.AssertNoError(t, err)

	s, err = Open(dir)
	testutil.AssertNoError(t, err)
	defer s.Close()
	first, err := s.IsFirstLaunch()
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, first)
}

func TestDataDirHonoursXDG(t *testing.T) {
	if os.Getenv("APPDATA") != "" {
		t.Skip("windows layout")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)
	t.Setenv("HOME", base)

	dir, err := DataDir()
	testutil.AssertNoError(t, err)
	_, err = os.Stat(dir)
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, dir, appName)
}

func TestPlatformBase(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }
	home := func() (string, error) { return "/home/ada", nil }

	tests := []struct {
		goos string
		env  map[string]string
		want string
	}{
		{"linux", nil, filepath.Join("/home/ada", ".local", "share")},
		{"linux", map[string]string{"XDG_DATA_HOME": "/data"}, "/data"},
		{"freebsd", nil, filepath.Join("/home/ada", ".local", "share")},
		{"darwin", map[string]string{"XDG_DATA_HOME": "/data"}, filepath.Join("/home/ada", "Library", "Application Support")},
		{"windows", nil, filepath.Join("/home/ada", "AppData", "Roaming")},
		{"windows", map[string]string{"APPDATA": "/roaming"}, "/roaming"},
	}
	for _, tc := range tests {
		env = tc.env
		got, err := platformBase(tc.goos, getenv, home)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got, tc.want, tc.goos)
	}

	noHome := errors.New("no home")
	_, err := platformBase("linux", func(string) string { return "" }, func() (string, error) { return "", noHome })
	testutil.AssertErrorIs(t, err, noHome)
}

func TestDatabaseDirUnderRoot(t *testing.T) {
	root := t.TempDir()
	dir, err := DatabaseDir(root)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, dir, filepath.Join(root, dbName))
	_, err = os.Stat(dir)
	testutil.AssertNoError(t, err)
}
