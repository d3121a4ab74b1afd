package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/internal/ledger"
	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/profile"
	"github.com/mmynk/billtracker/internal/reminder"
	"github.com/mmynk/billtracker/internal/storage"
	"github.com/mmynk/billtracker/internal/storage/sqlite"
	"github.com/mmynk/billtracker/pkg/api/apiconnect"
)

// testUserHeader carries the caller's user ID in tests, standing in for a
// bearer token.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the user ID
// from testUserHeader in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := req.Header().Get(testUserHeader); id != "" {
				ctx = middleware.WithUser(ctx, id, id+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

type testEnv struct {
	store *storage.Deduplicated

	users      apiconnect.UserServiceClient
	categories apiconnect.CategoryServiceClient
	bills      apiconnect.BillServiceClient
	reminders  apiconnect.ReminderServiceClient

	alice *models.User
	bob   *models.User
}

func openStore(t *testing.T) *storage.Deduplicated {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billtracker-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.RemoveAll(tempDir)
	})
	return storage.NewDeduplicated(store)
}

// setupTestServer serves every service except AuthService over a temp
// SQLite database, with two users already registered.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store := openStore(t)
	profiles := profile.New(store)
	reminders := &reminder.Reminders{
		Planner:   reminder.DefaultPlanner(),
		Scheduler: reminder.NewStoreScheduler(store),
	}

	opts := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(profiles), opts))
	mux.Handle(apiconnect.NewCategoryServiceHandler(NewCategoryService(store), opts))
	mux.Handle(apiconnect.NewBillServiceHandler(NewBillService(store, ledger.New(store), reminders, profiles), opts))
	mux.Handle(apiconnect.NewReminderServiceHandler(NewReminderService(store, reminders), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := &testEnv{
		store:      store,
		users:      apiconnect.NewUserServiceClient(http.DefaultClient, server.URL),
		categories: apiconnect.NewCategoryServiceClient(http.DefaultClient, server.URL),
		bills:      apiconnect.NewBillServiceClient(http.DefaultClient, server.URL),
		reminders:  apiconnect.NewReminderServiceClient(http.DefaultClient, server.URL),
	}
	env.alice = createUser(t, store, "alice@example.com")
	env.bob = createUser(t, store, "bob@example.com")
	return env
}

func createUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

// today is the calendar date the services compute statuses against.
func today() time.Time {
	return models.Date(time.Now())
}

func day(offset int) string {
	return models.FormatDate(today().AddDate(0, 0, offset))
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%v)", want, connectErr.Code(), err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
