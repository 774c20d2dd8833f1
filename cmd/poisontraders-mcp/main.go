package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/poisontraders/internal/config"
	ptmcp "github.com/peterkuimelis/poisontraders/internal/mcp"
)

func main() {
	config.LoadEnv()

	rulesFile := flag.String("rules", config.Getenv(config.EnvRules, ""), "path to a rules YAML file (default: built-in rules)")
	logLevel := flag.String("log-level", config.Getenv(config.EnvLogLevel, "warn"), "log level")
	flag.Parse()

	// stdout carries the MCP stream, so logs go to stderr
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

	ptmcp.SetRules(rules)
	ptmcp.SetLogger(logger)

	s := server.NewMCPServer("poisontraders", "1.0.0")
	ptmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
