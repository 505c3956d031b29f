// Package uci implements a line protocol front end for the search engine,
// following the Universal Chess Interface.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/engine"
)

// infiniteTime bounds "go infinite"; the search ends on stop long before.
const infiniteTime = 24 * time.Hour

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	plies    int // Moves played since the start or FEN position

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // Guards out

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a new UCI protocol handler.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewGame(),
		in:       in,
		out:      out,
	}
}

// Run reads commands until "quit" or the end of the input. A search still
// running at the end of the input is allowed to finish.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.printf("Fen: %s\n", u.position.ToFEN())
		case "perft":
			u.handlePerft(args)
		default:
			u.printf("info string unknown command %s\n", cmd)
		}
	}

	u.wait()
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessDuel")
	u.println("id author ChessDuel Team")
	u.println("")
	u.println("option name Difficulty type combo default medium var easy var medium var hard")
	u.printf("option name Depth type spin default 0 min 0 max %d\n", engine.MaxDepth)
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.wait()
	u.position = board.NewGame()
	u.plies = 0
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.wait()

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewGame()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
	default:
		return
	}

	plies := 0
	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := board.ParseMove(s, pos)
			if err != nil {
				u.printf("info string %v\n", err)
				return
			}
			pos.Make(m)
			plies++
		}
	}
	u.position, u.plies = pos, plies
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search in the background. The best move is printed
// when it ends.
func (u *UCI) handleGo(args []string) {
	u.wait()
	limits := u.calculateLimits(parseGoOptions(args))

	u.engine.OnInfo = u.sendInfo
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	u.cancel, u.searchDone = cancel, done

	pos := u.position.Copy()
	go func() {
		defer close(done)
		defer cancel()

		res, err := u.engine.SearchWithLimits(ctx, pos, limits)
		switch {
		case err == nil && !res.Move().IsNull():
			u.printf("bestmove %s\n", res.Move().UCI())
			return
		case err != nil && !errors.Is(err, engine.ErrSearchAborted):
			u.printf("info string search failed: %v\n", err)
		}
		u.printf("bestmove %s\n", fallbackMove(pos).UCI())
	}()
}

// fallbackMove returns the first legal move, or NoMove when there is none.
func fallbackMove(pos *board.Position) board.Move {
	m := board.NoMove
	pos.ForEachLegalMove(func(from, to board.Square) bool {
		m = board.NewMove(pos, from, to)
		if m.Piece == board.Pawn && to.RelativeRank(pos.SideToMove) == 7 {
			m = m.WithPromotion(board.Queen)
		}
		return false
	})
	return m
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}
	millis := func(i int) time.Duration {
		ms, _ := strconv.Atoi(args[i])
		return time.Duration(ms) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(args[i+1])
		case "movetime":
			opts.MoveTime = millis(i + 1)
		case "wtime":
			opts.WTime = millis(i + 1)
		case "btime":
			opts.BTime = millis(i + 1)
		case "winc":
			opts.WInc = millis(i + 1)
		case "binc":
			opts.BInc = millis(i + 1)
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(args[i+1])
		default:
			continue
		}
		i++
	}
	return opts
}

// calculateLimits converts GoOptions to engine.Limits.
func (u *UCI) calculateLimits(opts GoOptions) engine.Limits {
	limits := engine.Limits{Depth: opts.Depth}

	switch {
	case opts.Infinite:
		limits.Depth = engine.MaxDepth
		limits.MoveTime = infiniteTime
	case opts.MoveTime > 0:
		limits.MoveTime = opts.MoveTime
	case opts.WTime > 0 || opts.BTime > 0:
		ourTime, ourInc := opts.WTime, opts.WInc
		if u.position.SideToMove == board.Black {
			ourTime, ourInc = opts.BTime, opts.BInc
		}
		limits.MoveTime = engine.TimeForMove(ourTime, ourInc, opts.MovesToGo, u.plies)
		u.printf("info string time_allocated=%dms our_time=%dms our_inc=%dms\n",
			limits.MoveTime.Milliseconds(), ourTime.Milliseconds(), ourInc.Milliseconds())
	}
	return limits
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	// Mate scores carry no distance; the PV length stands in for it.
	switch {
	case engine.IsMateScore(info.Score) && info.Score > 0:
		parts = append(parts, fmt.Sprintf("score mate %d", (len(info.PV)+1)/2))
	case engine.IsMateScore(info.Score):
		parts = append(parts, fmt.Sprintf("score mate -%d", len(info.PV)/2))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.UCI()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its best move.
func (u *UCI) handleStop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

// wait blocks until the running search, if any, has printed its move.
func (u *UCI) wait() {
	if u.searchDone == nil {
		return
	}
	<-u.searchDone
	u.searchDone, u.cancel = nil, nil
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	u.wait()
	switch strings.ToLower(strings.Join(name, " ")) {
	case "difficulty":
		d, err := engine.ParseDifficulty(val)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.engine.SetDifficulty(d)
	case "depth":
		depth, err := strconv.Atoi(val)
		if err != nil || depth < 0 || depth > engine.MaxDepth {
			u.printf("info string invalid depth %q\n", val)
			return
		}
		u.engine.SetDepth(depth)
	default:
		u.printf("info string unknown option %s\n", strings.Join(name, " "))
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes, err := u.engine.Perft(u.position, depth)
	if err != nil {
		u.printf("info string %v\n", err)
		return
	}
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}
