package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shawn-b/GuerrillaMailTester/internal/cli"
	"github.com/shawn-b/GuerrillaMailTester/internal/exitcodes"
)

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	switch {
	case interrupted || errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Exiting program...")
		os.Exit(exitcodes.Interrupted)
	case err != nil:
		os.Exit(exitcodes.Failure)
	}
	os.Exit(exitcodes.Success)
}
