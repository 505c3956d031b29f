// ChessDuel - play chess against the computer in a terminal.
//
// Moves are typed as squares: "e2" selects a piece, "e4" moves it there,
// or both at once as "e2e4". A promotion asks for n, b, r or q.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/clock"
	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/hailam/chessduel/internal/game"
	"github.com/hailam/chessduel/internal/player"
	"github.com/hailam/chessduel/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "easy, medium or hard")
	flag.IntVar(&cfg.Depth, "depth", cfg.Depth, "search depth, overrides difficulty when > 0")
	flag.StringVar(&cfg.HumanColor, "color", cfg.HumanColor, "human side: white, black, both or none")
	flag.StringVar(&cfg.Clock, "clock", cfg.Clock, "none, sudden-death, fischer, bronstein, delay or hourglass")
	flag.DurationVar(&cfg.BaseTime, "base", cfg.BaseTime, "time on each clock")
	flag.DurationVar(&cfg.Increment, "inc", cfg.Increment, "clock increment")
	flag.BoolVar(&cfg.Budgeted, "budgeted", cfg.Budgeted, "let the computer budget its clock time")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	fen := flag.String("fen", "", "start from this position")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	pos := board.NewGame()
	if *fen != "" {
		if pos, err = board.ParseFEN(*fen); err != nil {
			log.Fatal(err)
		}
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	} else {
		defer store.Close()
		greet(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := &terminal{pos: pos}
	input := player.NewLineInput(os.Stdin)
	match := &game.Match{Position: pos, Feedback: term}
	match.WhiteClock, match.White = seat(cfg, board.White, input, term)
	match.BlackClock, match.Black = seat(cfg, board.Black, input, term)

	fmt.Print(pos)
	started := time.Now()
	res, err := match.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if store != nil {
		record(store, cfg, res, time.Since(started))
	}
}

// seat creates the clock and player for one side.
func seat(cfg *config.Config, c board.Color, input player.Input, term *terminal) (clock.Clock, player.Player) {
	var clk clock.Clock = clock.Unlimited{}
	if cfg.Timed() {
		t := clock.NewTimer(cfg.BaseTime, cfg.Policy())
		t.WarningLimit = cfg.WarningLimit
		t.OnWarning = func(rem time.Duration) {
			log.Printf("[CLOCK] %v: %s left", c, clock.Format(rem))
		}
		t.OnExpire = func() {
			log.Printf("[CLOCK] %v flag fell", c)
		}
		clk = t
	}

	if cfg.IsHuman(c) {
		h := player.NewHuman(c.String(), c, input, clk)
		h.Display = term
		return clk, h
	}

	eng := engine.NewEngine()
	eng.SetDifficulty(cfg.EngineDifficulty())
	eng.SetDepth(cfg.Depth)
	comp := player.NewComputer("Computer ("+c.String()+")", c, eng, clk)
	comp.Budgeted = cfg.Budgeted
	comp.Increment = cfg.Increment
	return clk, comp
}

func greet(store *storage.Storage) {
	first, err := store.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if first {
		fmt.Println("Welcome to ChessDuel! Type squares like e2 e4 to move.")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: Failed to mark first launch complete: %v", err)
		}
	}
}

// record saves the settings and, when exactly one human played, the result.
func record(store *storage.Storage, cfg *config.Config, res game.Result, d time.Duration) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		prefs = storage.DefaultPreferences()
	}
	prefs.Difficulty = cfg.EngineDifficulty().String()
	prefs.HumanColor = cfg.HumanColor
	prefs.Clock = cfg.Clock
	prefs.BaseTime = cfg.BaseTime
	prefs.Increment = cfg.Increment
	if err := store.SavePreferences(prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}

	var human board.Color
	switch {
	case cfg.IsHuman(board.White) && !cfg.IsHuman(board.Black):
		human = board.White
	case cfg.IsHuman(board.Black) && !cfg.IsHuman(board.White):
		human = board.Black
	default:
		return
	}

	stats, err := store.RecordMatch(storage.MatchRecord{
		Result:     res,
		Human:      human,
		Difficulty: cfg.EngineDifficulty(),
		Duration:   d,
	})
	if err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
		return
	}
	fmt.Printf("%s: %d played, %d won, %d lost, %d drawn (%.0f%%)\n",
		prefs.Username, stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.WinRate())
}
