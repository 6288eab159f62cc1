package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvollmar/pipeboard/internal/config"
	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/mcp"
	"github.com/nvollmar/pipeboard/internal/sqlite"
	"github.com/nvollmar/pipeboard/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("PIPEBOARD_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	leadSvc := lead.NewService(sqlite.NewLeadRepository(db), activitySvc, logger)
	contactSvc := contact.NewService(sqlite.NewContactRepository(db), activitySvc, logger)
	searchRepo := sqlite.NewSearchRepository(db)

	notifications := pipeline.NewNotificationBuffer()
	recorder := &activity.FailureRecorder{Buffer: notifications, Service: activitySvc, Logger: logger}

	boards := map[pipeline.Collection]*pipeline.Board{
		pipeline.CollectionLeads:    pipeline.NewBoard(pipeline.CollectionLeads),
		pipeline.CollectionContacts: pipeline.NewBoard(pipeline.CollectionContacts),
	}
	if err := pipeline.Refresh(context.Background(), leadSvc, boards[pipeline.CollectionLeads]); err != nil {
		logger.Error("failed to load leads board", "error", err)
		os.Exit(1)
	}
	if err := pipeline.Refresh(context.Background(), contactSvc, boards[pipeline.CollectionContacts]); err != nil {
		logger.Error("failed to load contacts board", "error", err)
		os.Exit(1)
	}

	reconcilers := map[pipeline.Collection]*pipeline.Reconciler{
		pipeline.CollectionLeads:    pipeline.NewReconciler(boards[pipeline.CollectionLeads], leadSvc, recorder, logger),
		pipeline.CollectionContacts: pipeline.NewReconciler(boards[pipeline.CollectionContacts], contactSvc, recorder, logger),
	}
	coordinator := pipeline.NewCoordinator(boards, reconcilers, logger)

	resolver := &apiKeyResolver{db: db}
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Coordinator: coordinator,
			Leads:       leadSvc,
			Contacts:    contactSvc,
			Activity:    activitySvc,
			Search:      searchRepo,
		},
		Resolver:      resolver,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer, reconcilers)
		return
	}

	var authMiddleware func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(resolver)
	}
	router := transport.NewServer(transport.Deps{
		Coordinator:   coordinator,
		Leads:         leadSvc,
		Contacts:      contactSvc,
		Activities:    activitySvc,
		Search:        searchRepo,
		Notifications: notifications,
		Logger:        logger,
	}, authMiddleware)

	runHTTPMode(logger, mcpServer, router, cfg.Server.Host, cfg.Server.Port, reconcilers)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, reconcilers map[pipeline.Collection]*pipeline.Reconciler) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	waitForReconcilers(reconcilers)
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, api http.Handler, host string, port int, reconcilers map[pipeline.Collection]*pipeline.Reconciler) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.Handle("/", api)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
	waitForReconcilers(reconcilers)
}

// waitForReconcilers lets in-flight status writes resolve before exit.
func waitForReconcilers(reconcilers map[pipeline.Collection]*pipeline.Reconciler) {
	for _, r := range reconcilers {
		r.Wait()
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) Authenticate(ctx context.Context, token string) error {
	hash := hashToken(token)
	var found string
	err := r.db.QueryRowContext(ctx, `SELECT key_hash FROM api_keys WHERE key_hash = ?`, hash).Scan(&found)
	if err != nil {
		return fmt.Errorf("unauthorized: invalid token")
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash)
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
