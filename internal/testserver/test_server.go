// Package testserver assembles a fully wired HTTP server over an
// in-memory database for functional and integration tests.
package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/sqlite"
	"github.com/nvollmar/pipeboard/internal/transport"
)

type TestServer struct {
	Server        *httptest.Server
	DB            *sqlite.DB
	Token         string
	Leads         *lead.Service
	Contacts      *contact.Service
	Activities    *activity.Service
	Coordinator   *pipeline.Coordinator
	Reconcilers   map[pipeline.Collection]*pipeline.Reconciler
	Notifications *pipeline.NotificationBuffer
}

func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations())

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	leadSvc := lead.NewService(sqlite.NewLeadRepository(db), activitySvc, nil)
	contactSvc := contact.NewService(sqlite.NewContactRepository(db), activitySvc, nil)

	notifications := pipeline.NewNotificationBuffer()
	recorder := &activity.FailureRecorder{Buffer: notifications, Service: activitySvc}

	boards := map[pipeline.Collection]*pipeline.Board{
		pipeline.CollectionLeads:    pipeline.NewBoard(pipeline.CollectionLeads),
		pipeline.CollectionContacts: pipeline.NewBoard(pipeline.CollectionContacts),
	}
	reconcilers := map[pipeline.Collection]*pipeline.Reconciler{
		pipeline.CollectionLeads:    pipeline.NewReconciler(boards[pipeline.CollectionLeads], leadSvc, recorder, nil),
		pipeline.CollectionContacts: pipeline.NewReconciler(boards[pipeline.CollectionContacts], contactSvc, recorder, nil),
	}
	coordinator := pipeline.NewCoordinator(boards, reconcilers, nil)

	resolver := &apiKeyResolver{db: db}
	router := transport.NewServer(transport.Deps{
		Coordinator:   coordinator,
		Leads:         leadSvc,
		Contacts:      contactSvc,
		Activities:    activitySvc,
		Search:        sqlite.NewSearchRepository(db),
		Notifications: notifications,
	}, transport.AuthMiddleware(resolver))

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:        server,
		DB:            db,
		Token:         token,
		Leads:         leadSvc,
		Contacts:      contactSvc,
		Activities:    activitySvc,
		Coordinator:   coordinator,
		Reconcilers:   reconcilers,
		Notifications: notifications,
	}

	require.NoError(t, ts.AddAPIKey(token, "test key"))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Wait blocks until all in-flight status writes have resolved.
func (ts *TestServer) Wait() {
	for _, r := range ts.Reconcilers {
		r.Wait()
	}
}

func (ts *TestServer) AddAPIKey(token, description string) error {
	hash := hashToken(token)
	_, err := ts.DB.Exec(
		`INSERT INTO api_keys (key_hash, description, created_at) VALUES (?, ?, ?)`,
		hash, description, time.Now(),
	)
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
		return transport.ErrUnauthorized
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
