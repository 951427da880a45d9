package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"quiz-session/internal/cli"
	"quiz-session/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: ignoring .env:", err)
	}
	cfg := config.LoadTaker()

	username := flag.String("username", cfg.Username, "username for history and stats (optional)")
	server := flag.String("server", cfg.ServerURL, "quiz service base URL")
	timeout := flag.Duration("timeout", cfg.HTTPTimeout, "HTTP timeout")
	flag.Parse()

	err := cli.Run(context.Background(), os.Stdin, os.Stdout, cli.Config{
		Username:    *username,
		ServerURL:   *server,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
