package main

import (
	"log/slog"
	"os"

	"github.com/roompulse/roompulse/internal/cli"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cli.Execute()
}
