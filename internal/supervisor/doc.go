// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

/*
Package supervisor provides process supervision for AssessMatch using suture v4.

The server runs as a tree of supervisors so that a failing component is
restarted with backoff instead of taking the process down:

	assessmatch (root)
	├── index-layer   IndexMonitorService
	├── model-layer   ModelWarmupService
	└── api-layer     HTTPServerService

Supervisor events (service failures, backoff, restarts) are logged through
sutureslog into the zerolog-backed slog handler from the logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, addr, timeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

# Failure Handling

FailureThreshold failures within the FailureDecay window put a supervisor
into FailureBackoff before it restarts its children. A service that returns
suture.ErrDoNotRestart is removed without counting as a failure.
*/
package supervisor
