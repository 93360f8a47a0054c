package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/plenohq/plenosite/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database, "pleno.")
}

func TestCreateSessionAppliesPrefix(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateSession(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !strings.HasPrefix(id, "pleno.") {
		t.Errorf("session id %q missing storage prefix", id)
	}

	rec, err := s.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if rec.Token != "" || rec.Error != "" {
		t.Error("new session should be anonymous")
	}
}

func TestGetSessionUnknown(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSession(context.Background(), "pleno.nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSetTokenClearsErrorAndPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, time.Hour)
	if err := s.BeginLogin(ctx, id, "state-1", "verifier-1", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := s.SetError(ctx, id, "first attempt failed"); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginLogin(ctx, id, "state-2", "verifier-2", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := s.SetToken(ctx, id, "tok", "Bearer", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	rec, err := s.GetSession(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Token != "tok" {
		t.Errorf("token = %q", rec.Token)
	}
	if rec.Error != "" {
		t.Errorf("error should be cleared, got %q", rec.Error)
	}

	pending, err := s.HasPendingLogin(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if pending {
		t.Error("pending login should be cleared once a token lands")
	}
}

func TestSetErrorClearsToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, time.Hour)
	if err := s.SetToken(ctx, id, "tok", "Bearer", time.Time{}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetError(ctx, id, "revoked"); err != nil {
		t.Fatal(err)
	}

	rec, err := s.GetSession(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Token != "" {
		t.Error("token should be cleared when an error lands")
	}
	if rec.Error != "revoked" {
		t.Errorf("error = %q", rec.Error)
	}
}

func TestConsumeLoginIsOneShot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, time.Hour)
	if err := s.BeginLogin(ctx, id, "state-x", "verifier-x", time.Minute); err != nil {
		t.Fatal(err)
	}

	owner, verifier, err := s.ConsumeLogin(ctx, "state-x")
	if err != nil {
		t.Fatalf("ConsumeLogin: %v", err)
	}
	if owner != id || verifier != "verifier-x" {
		t.Errorf("got owner=%q verifier=%q", owner, verifier)
	}

	if _, _, err := s.ConsumeLogin(ctx, "state-x"); !errors.Is(err, ErrStateMismatch) {
		t.Errorf("replay should fail with ErrStateMismatch, got %v", err)
	}
}

func TestConsumeLoginConcurrentSingleWinner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, time.Hour)
	if err := s.BeginLogin(ctx, id, "state-race", "verifier-race", time.Minute); err != nil {
		t.Fatal(err)
	}

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.ConsumeLogin(ctx, "state-race")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, misses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrStateMismatch):
			misses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
	if misses != callers-1 {
		t.Errorf("expected %d losers, got %d", callers-1, misses)
	}
}

func TestConsumeLoginExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.CreateSession(ctx, time.Hour)
	if err := s.BeginLogin(ctx, id, "state-old", "v", -time.Minute); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.ConsumeLogin(ctx, "state-old"); !errors.Is(err, ErrLoginExpired) {
		t.Errorf("expected ErrLoginExpired, got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	live, _ := s.CreateSession(ctx, time.Hour)
	dead, _ := s.CreateSession(ctx, -time.Hour)

	n, err := s.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged session, got %d", n)
	}

	if _, err := s.GetSession(ctx, live); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
	if _, err := s.GetSession(ctx, dead); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("dead session should be gone, got %v", err)
	}
}
