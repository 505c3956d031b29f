package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hailam/chessduel/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewGame()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	res, err := eng.Search(context.Background(), pos)
	if err != nil {
		t.Fatal(err)
	}
	move := res.Move()
	if move.IsNull() {
		t.Fatal("Search returned NoMove for starting position")
	}
	if res.Depth != DifficultyDepth[Easy] {
		t.Errorf("searched depth %d, want %d", res.Depth, DifficultyDepth[Easy])
	}
	if _, err := board.ParseMove(move.UCI(), pos); err != nil {
		t.Errorf("best move %s is not legal: %v", move.UCI(), err)
	}
	t.Logf("Best move: %s", move.String())
}

func TestFixedDepthMatchesSearcher(t *testing.T) {
	pos := board.NewGame()
	eng := NewEngine()

	got, err := eng.SearchWithLimits(context.Background(), pos, Limits{Depth: 3})
	if err != nil {
		t.Fatal(err)
	}
	want, err := NewSearcher(3).BestMove(context.Background(), pos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Score != want.Score || got.Move() != want.Move() {
		t.Errorf("engine %s (%d), searcher %s (%d)", got.Move(), got.Score, want.Move(), want.Score)
	}
}

func TestSearchWithMoveTime(t *testing.T) {
	pos := board.NewGame()
	eng := NewEngine()

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
		if len(info.PV) == 0 {
			t.Errorf("depth %d reported an empty PV", info.Depth)
		}
	}

	res, err := eng.SearchWithLimits(context.Background(), pos, Limits{Depth: 3, MoveTime: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if len(depths) == 0 || depths[0] != 1 {
		t.Fatalf("iterations reported %v, want to start at depth 1", depths)
	}
	if res.Depth != depths[len(depths)-1] {
		t.Errorf("result depth %d, last completed iteration %d", res.Depth, depths[len(depths)-1])
	}
	if res.Move().IsNull() {
		t.Error("no move returned")
	}
}

func TestSearchWithLimitsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine()
	_, err := eng.SearchWithLimits(ctx, board.NewGame(), Limits{Depth: 3})
	if !errors.Is(err, ErrSearchAborted) {
		t.Errorf("fixed depth: got %v, want ErrSearchAborted", err)
	}
	_, err = eng.SearchWithLimits(ctx, board.NewGame(), Limits{Depth: 3, MoveTime: time.Second})
	if !errors.Is(err, ErrSearchAborted) {
		t.Errorf("timed: got %v, want ErrSearchAborted", err)
	}
}

func TestEngineStop(t *testing.T) {
	eng := NewEngine()
	done := make(chan error, 1)
	go func() {
		_, err := eng.SearchWithLimits(context.Background(), board.NewGame(), Limits{Depth: MaxDepth})
		done <- err
	}()

	// Keep asking until the search notices.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case err := <-done:
			if !errors.Is(err, ErrSearchAborted) {
				t.Errorf("stopped search returned %v", err)
			}
			return
		case <-ticker.C:
			eng.Stop()
		case <-timeout:
			t.Fatal("search did not stop")
		}
	}
}

func TestPerft(t *testing.T) {
	eng := NewEngine()
	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tc := range tests {
		got, err := eng.Perft(board.NewGame(), tc.depth)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("expected an error for an unknown difficulty")
	}
}

func TestTimeForMove(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		inc       time.Duration
		mtg       int
		ply       int
		min, max  time.Duration
	}{
		{"sudden death midgame", 5 * time.Minute, 0, 0, 40, 5 * time.Second, 10 * time.Second},
		{"increment counts", time.Minute, 2 * time.Second, 0, 40, 3 * time.Second, 4 * time.Second},
		{"moves to go", time.Minute, 0, 10, 40, 6 * time.Second, 6 * time.Second},
		{"nearly flagged", 20 * time.Millisecond, 10 * time.Second, 0, 40, minMoveTime, 16 * time.Millisecond},
		{"flagged", 0, 0, 0, 40, minMoveTime, minMoveTime},
	}
	for _, tc := range tests {
		got := TimeForMove(tc.remaining, tc.inc, tc.mtg, tc.ply)
		if got < tc.min || got > tc.max {
			t.Errorf("%s: TimeForMove = %v, want between %v and %v", tc.name, got, tc.min, tc.max)
		}
	}
}

func TestScoreToString(t *testing.T) {
	tests := map[int]string{
		0:              "0.00",
		125:            "1.25",
		-40:            "-0.40",
		MateScore - 50: "Mating",
		-MateScore:     "Mated",
	}
	for score, want := range tests {
		if got := ScoreToString(score); got != want {
			t.Errorf("ScoreToString(%d) = %q, want %q", score, got, want)
		}
	}
}

func TestSetDepthOverridesDifficulty(t *testing.T) {
	eng := NewEngine()
	eng.SetDifficulty(Hard)
	if eng.Depth() != DifficultyDepth[Hard] {
		t.Fatalf("Depth() = %d, want the difficulty default", eng.Depth())
	}

	eng.SetDepth(1)
	res, err := eng.Search(context.Background(), board.NewGame())
	if err != nil {
		t.Fatal(err)
	}
	if res.Depth != 1 {
		t.Errorf("searched depth %d, want 1", res.Depth)
	}

	eng.SetDepth(MaxDepth + 5)
	if eng.Depth() != MaxDepth {
		t.Errorf("Depth() = %d, want it capped at %d", eng.Depth(), MaxDepth)
	}
	eng.SetDepth(0)
	if eng.Depth() != DifficultyDepth[Hard] {
		t.Errorf("SetDepth(0) should restore the difficulty default, got %d", eng.Depth())
	}
}
