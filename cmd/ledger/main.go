package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"payments-engine/pkg/csvio"
	"payments-engine/pkg/engine"
	"payments-engine/pkg/logging"
)

// ledger replays a CSV of transaction records and prints the final
// account balances as CSV on stdout. Warnings and errors go to stderr so
// the output stream stays clean.
func main() {
	logger, err := logging.NewLoggerFromEnv()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	logging.SetGlobal(logger)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ledger <input-file>")
		os.Exit(1)
	}
	filename := os.Args[1]

	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open input file",
			zap.String("file", filename),
			zap.Error(err),
		)
		os.Exit(1)
	}
	defer file.Close()

	accounts, err := engine.Replay(context.Background(), csvio.NewReader(file), engine.Config{
		Logger: logger.Named("engine"),
	})
	if err != nil {
		logger.Error("replay failed", zap.Error(err))
		os.Exit(1)
	}

	if err := csvio.NewWriter(os.Stdout).WriteAll(accounts.Snapshot()); err != nil {
		logger.Error("failed to write output", zap.Error(err))
		os.Exit(1)
	}
}
