package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/peterkuimelis/poisontraders/internal/config"
	"github.com/peterkuimelis/poisontraders/internal/console"
	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
	"github.com/peterkuimelis/poisontraders/internal/sim"
)

func main() {
	config.LoadEnv()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(os.Args[2:])
	case "sim":
		err = runSim(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  poisontraders play [--players N] [--seat S] [--seed N] [--rules FILE] [--events FILE]")
	fmt.Println("  poisontraders sim  [--games N] [--players N] [--workers N] [--profiles A,B,C]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play a game in the terminal against AI opponents")
	fmt.Println("  sim     Run AI-only games in bulk and print statistics")
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	players := fs.Int("players", 4, "number of players")
	seat := fs.Int("seat", 0, "your seat, 0-based (-1 to watch an AI-only game)")
	seed := fs.Int64("seed", config.Int64Env(config.EnvSeed, 0), "random seed (0 for time based)")
	rulesFile := fs.String("rules", config.Getenv(config.EnvRules, ""), "path to a rules YAML file (default: built-in rules)")
	logLevel := fs.String("log-level", config.Getenv(config.EnvLogLevel, "error"), "log level (game events log at debug, info and warn)")
	autoAdvance := fs.Duration("auto-advance", 0, "advance turns automatically after this delay")
	maxTurns := fs.Int("max-turns", 0, "end the game after this many turns (0 for no limit)")
	eventsFile := fs.String("events", "", "append a plain-text transcript of every game event to this file")
	fs.Parse(args)

	logger, err := config.NewLogger(*logLevel, os.Stderr)
	if err != nil {
		return err
	}
	rules, err := config.LoadRules(*rulesFile)
	if err != nil {
		return err
	}

	var events io.Writer
	if *eventsFile != "" {
		f, err := os.OpenFile(*eventsFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer f.Close()
		events = f
	}

	var humans []int
	if *seat >= 0 {
		humans = []int{*seat}
	}
	m, err := match.New(match.Config{
		Game: game.Config{
			NumPlayers: *players,
			HumanSeats: humans,
			Seed:       *seed,
			Rules:      rules,
			MaxTurns:   *maxTurns,
		},
		AutoAdvance: *autoAdvance,
		Log:         logger,
		EventLog:    events,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = console.Run(ctx, m, os.Stdin, os.Stdout)
	if errors.Is(err, console.ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runSim(args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	games := fs.Int("games", 1000, "number of games to play")
	players := fs.Int("players", 4, "number of players per game")
	seed := fs.Int64("seed", config.Int64Env(config.EnvSeed, 0), "master seed (0 for time based)")
	workers := fs.Int("workers", 0, "parallel workers (0 for one per CPU)")
	maxTurns := fs.Int("max-turns", sim.DefaultMaxTurns, "turn limit per game")
	profiles := fs.String("profiles", "", "comma-separated AI profile per seat (default: random)")
	rulesFile := fs.String("rules", config.Getenv(config.EnvRules, ""), "path to a rules YAML file (default: built-in rules)")
	check := fs.Bool("check", false, "verify state invariants after every command")
	fs.Parse(args)

	rules, err := config.LoadRules(*rulesFile)
	if err != nil {
		return err
	}

	cfg := sim.Config{
		Games:    *games,
		Players:  *players,
		Seed:     *seed,
		Workers:  *workers,
		MaxTurns: *maxTurns,
		Rules:    rules,
		Check:    *check,
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *profiles != "" {
		cfg.Profiles = make(map[int]string)
		for i, name := range strings.Split(*profiles, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Profiles[i] = name
			}
		}
	}

	start := time.Now()
	report := sim.RunBatch(cfg)
	report.WriteTable(os.Stdout)
	fmt.Printf("seed %d, %d games in %s\n", cfg.Seed, *games, time.Since(start).Round(time.Millisecond))

	if len(report.Errors) > 0 {
		for _, e := range report.Errors[:min(len(report.Errors), 5)] {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
		return fmt.Errorf("%d of %d games failed", len(report.Errors), *games)
	}
	return nil
}
