// Command seed populates a running devrank instance with synthetic users
// and verifies the resulting leaderboard ordering.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/devrank/devrank/internal/seed"
	"github.com/devrank/devrank/pkg/logger"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the devrank service")
	numUsers := flag.Int("users", 25, "number of synthetic users to seed")
	maxRepos := flag.Int("max-repos", 12, "maximum repos per synthetic user")
	version := flag.String("version", "V1", "algorithm version to score with")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("seed")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := seed.NewRunner(seed.Config{
		BaseURL:  *baseURL,
		NumUsers: *numUsers,
		MaxRepos: *maxRepos,
		Version:  *version,
	}, log)

	if err := runner.Run(ctx); err != nil {
		log.Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}
