// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

// Command assessctl is the operator CLI for AssessMatch: it builds the vector
// index from a catalog file and inspects or queries an existing index.
//
//	assessctl build-embeddings --catalog data/assessments.csv --replace
//	assessctl stats
//	assessctl search "Java developer who collaborates with business teams" --max 5
//	assessctl health
//	assessctl batch --input queries.csv --output recommendations.csv --max 10
//
// Configuration is read the same way as the server (config file plus
// environment); --config selects the file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "assessctl: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}
