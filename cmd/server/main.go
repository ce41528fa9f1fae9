/*
main.go - partyfin HTTP server

PURPOSE:
  Serves the run API over a SQLite run store. Every generated table is kept
  with the scenario that produced it, so clients can list, export, compare
  and re-verify runs long after they were created.

FLAGS:
  -port  Listen port (default 8080)
  -db    SQLite file, or ":memory:" for a throwaway store (default partyfin.db)
  -seed  Store one run of the reference scenario before serving, so an empty
         database has something to browse

REFERENCE SEEDING:
  -seed resolves the "reference" preset through the same scenario factory as
  POST /api/scenarios/reference/run, generates it with the handler's engine
  and saves it. A failure is logged and the server starts anyway.

SHUTDOWN:
  SIGINT or SIGTERM cancels the serve context; in-flight requests get 30s to
  finish before the store is closed.

EXAMPLES:
  ./server -db=":memory:" -seed
  ./server -port=9090 -db=./data/runs.db

SEE ALSO:
  - api/server.go: Routes and middleware
  - api/scenarios.go: Preset scenarios
  - cmd/partyfin: Command-line generation without a server
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/partyfin/api"
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/store/sqlite"
)

const shutdownGrace = 30 * time.Second

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "partyfin.db", "SQLite database path, or :memory:")
	seed := flag.Bool("seed", false, "Store a reference run before serving")
	flag.Parse()

	if err := run(*port, *dbPath, *seed); err != nil {
		log.Fatalf("[server] %v", err)
	}
}

func run(port int, dbPath string, seed bool) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening run store: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if seed {
		if err := seedReference(ctx, handler); err != nil {
			log.Printf("[server] WARN: reference run not stored: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return serve(ctx, srv)
}

// serve runs srv until ctx is canceled, then drains it.
func serve(ctx context.Context, srv *http.Server) error {
	failed := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s, API under /api", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("listening: %w", err)
	case <-ctx.Done():
	}

	log.Printf("[server] shutting down, %s grace", shutdownGrace)
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("[server] stopped")
	return nil
}

// seedReference stores one run of the reference preset.
func seedReference(ctx context.Context, h *api.Handler) error {
	s, err := api.LookupScenario(h.Factory, "reference")
	if err != nil {
		return err
	}
	result, err := h.Engine.Generate(ctx, s.Config)
	if err != nil {
		return err
	}
	run := generic.NewRun(s.Name, result)
	if err := h.Store.SaveRun(ctx, run); err != nil {
		return err
	}
	log.Printf("[server] reference run stored as %s", run.ID)
	return nil
}
