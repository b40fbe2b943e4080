package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/spajza/internal/api"
	"github.com/erazemk/spajza/internal/db"
	"github.com/erazemk/spajza/internal/store"
	"github.com/erazemk/spajza/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// envOr returns the environment variable's value or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Env files are optional; flags still take priority over the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("spajza", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", envOr("SPAJZA_DB", "spajza.sqlite3"), "")
	fs.StringVar(&dbPath, "d", envOr("SPAJZA_DB", "spajza.sqlite3"), "")

	var addr string
	fs.StringVar(&addr, "addr", envOr("SPAJZA_ADDR", ":8080"), "")
	fs.StringVar(&addr, "a", envOr("SPAJZA_ADDR", ":8080"), "")

	var publicDomain string
	fs.StringVar(&publicDomain, "domain", os.Getenv("SPAJZA_PUBLIC_DOMAIN"), "")

	var logPath string
	fs.StringVar(&logPath, "log", os.Getenv("SPAJZA_LOG"), "")
	fs.StringVar(&logPath, "l", os.Getenv("SPAJZA_LOG"), "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: spajza [flags]

Flags:
  -d, -db <path>          SQLite database path (default: spajza.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -domain <host>          public domain; restricts CORS to it (default: allow all)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Each flag falls back to SPAJZA_DB, SPAJZA_ADDR, SPAJZA_PUBLIC_DOMAIN or
SPAJZA_LOG, which may also be set in a .env file.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Open database and ensure the schema (idempotent, auto-creates the file).
	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	// Load JWT secret from the database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	// With a public domain configured, limit cross-origin requests to it;
	// during development, allow everything.
	allowedOrigins := []string{"*"}
	if publicDomain != "" {
		allowedOrigins = []string{
			"https://" + publicDomain,
			"http://" + publicDomain,
		}
		slog.Info("restricting cross-origin requests", "origins", allowedOrigins)
	} else {
		slog.Info("development mode, allowing all cross-origin requests")
	}

	// Combine: API routes take priority, the embedded frontend handles the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(database, jwtSecret, publicDomain))
	mux.Handle("/", http.FileServerFS(web.StaticFS()))

	handler := api.LoggingMiddleware(api.CORSMiddleware(allowedOrigins)(mux))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
