// Package tracerasdk provides a Go client for the Tracera experiment
// tracker. It launches the tracera-core worker process, discovers its
// listening address through a rendezvous file, and exchanges
// length-prefixed binary records with it over a local TCP or Unix
// socket stream.
//
// # Basic Usage
//
//	ctx := context.Background()
//	session, err := tracerasdk.Connect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	run, err := session.NewRun(ctx, tracerasdk.WithProject("mnist"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for epoch := 0; epoch < 10; epoch++ {
//	    if err := run.Log(map[string]float64{"loss": loss(epoch)}); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	if err := run.Finish(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Core discovery
//
// Connect locates the tracera-core binary through WithCorePath, the
// TRACERA_CORE_PATH environment variable, PATH, then common
// installation directories. An already-running core can be used instead
// via WithAddress, which skips launching entirely.
//
// # Logging
//
// The SDK is silent by default. Pass WithLogger for structured
// operational logging:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	session, err := tracerasdk.Connect(ctx, tracerasdk.WithLogger(logger))
//
// # Error Handling
//
// Failures are returned as typed errors:
//
//	session, err := tracerasdk.Connect(ctx)
//	if err != nil {
//	    var notFound *tracerasdk.CoreNotFoundError
//	    if errors.As(err, &notFound) {
//	        log.Fatalf("tracera-core not installed, searched: %v", notFound.SearchedPaths)
//	    }
//	    log.Fatal(err)
//	}
//
// Sessions are single-use: after Close, create a new one with Connect.
// Teardown is best-effort by design — Close never fails because the
// core could not be notified or killed.
package tracerasdk
