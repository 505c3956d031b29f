// ChessDuel UCI engine.
package main

import (
	"log"
	"os"

	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/hailam/chessduel/internal/uci"
)

func main() {
	// Engine output goes to stdout; keep the logger off it.
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	eng := engine.NewEngine()
	eng.SetDifficulty(cfg.EngineDifficulty())
	eng.SetDepth(cfg.Depth)

	if err := uci.New(eng, os.Stdin, os.Stdout).Run(); err != nil {
		log.Fatal(err)
	}
}
