package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"antigravity2newapi/internal/cli"
	logpkg "antigravity2newapi/internal/log"

	"github.com/joho/godotenv"
)

func main() {
	dotenvErr := godotenv.Load()

	logger := logpkg.CreateCLILogger()
	if dotenvErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewPusherCmd(ctx, logger).Execute()
	stop()
	logpkg.CloseLogger(logger)
	if err != nil {
		os.Exit(1)
	}
}
