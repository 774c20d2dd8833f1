package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/peterkuimelis/poisontraders/internal/config"
	"github.com/peterkuimelis/poisontraders/internal/web"
)

func main() {
	config.LoadEnv()

	port := flag.Int("port", config.IntEnv(config.EnvPort, 8080), "HTTP port to listen on")
	rulesFile := flag.String("rules", config.Getenv(config.EnvRules, ""), "path to a rules YAML file (default: built-in rules)")
	logLevel := flag.String("log-level", config.Getenv(config.EnvLogLevel, "info"), "log level")
	autoAdvance := flag.Duration("auto-advance", 0, "advance turns automatically after this delay")
	flag.Parse()

	logger, err := config.NewLogger(*logLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rules, err := config.LoadRules(*rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(web.Config{Rules: rules, AutoAdvance: *autoAdvance, Log: logger})

	addr := fmt.Sprintf(":%d", *port)
	logger.Infof("poisontraders web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
