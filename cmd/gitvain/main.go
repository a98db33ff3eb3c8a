package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bashhack/gitvain/internal/config"
	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// shutdownGrace is how long workers get to notice cancellation before the
// process exits anyway.
const shutdownGrace = 5 * time.Second

func main() {
	app := NewDefaultApp(config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := app.Config.ParseFlags(); err != nil {
		_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
		app.exit(1)
		return
	}

	if err := app.Initialize(); err != nil {
		_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
		app.exit(1)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		select {
		case sig := <-c:
			_, _ = fmt.Fprintf(app.Stderr, "\nReceived signal %v, stopping search...\n", sig)
			cancel()
		case <-done:
			return
		}

		select {
		case <-done:
		case <-time.After(shutdownGrace):
			app.CleanupOnSignal()
			app.exit(1)
		}
	}()

	os.Exit(run(ctx, app, done))
}

// run executes the app and returns the process exit code. Not finding a
// match is a normal outcome; an interrupted search is reported as a failure.
func run(ctx context.Context, app *App, done chan<- struct{}) int {
	err := app.Run(ctx)
	close(done)

	code := 0
	switch {
	case err == nil:
	case vainErrors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(app.Stderr, "❌ Search interrupted, HEAD unchanged")
		code = 1
	default:
		_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
		code = 1
	}

	app.PrintSummary()
	if cerr := app.Close(); cerr != nil && code == 0 {
		code = 1
	}
	return code
}
