package session

import (
	"context"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		st   AuthState
		want Outcome
	}{
		{"loading performs no navigation", AuthState{IsLoading: true}, StayPending},
		{"loading with early error still pending", AuthState{IsLoading: true, Error: "denied"}, StayPending},
		{"settled with token goes to docs", AuthState{Token: "abc"}, RedirectDocs},
		{"settled with error goes home", AuthState{Error: "denied"}, RedirectHome},
		{"token wins over stale error", AuthState{Token: "abc", Error: "old"}, RedirectDocs},
		{"settled with neither is ambiguous", AuthState{}, StayAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.st); got != tt.want {
				t.Errorf("Resolve(%+v) = %v, want %v", tt.st, got, tt.want)
			}
		})
	}
}

func TestOutcomeTargets(t *testing.T) {
	if got := RedirectDocs.Target(); got != "/docs" {
		t.Errorf("RedirectDocs target = %q, want /docs", got)
	}
	if got := RedirectHome.Target(); got != "/" {
		t.Errorf("RedirectHome target = %q, want /", got)
	}
	if got := StayPending.Target(); got != "" {
		t.Errorf("StayPending target = %q, want empty", got)
	}
	if got := StayAmbiguous.Target(); got != "" {
		t.Errorf("StayAmbiguous target = %q, want empty", got)
	}
}

func TestAwaitRedirectsOnceSettledWithError(t *testing.T) {
	p, sessionID := newTestProvider(t, "")

	ctx := context.Background()
	if _, err := p.BeginLogin(ctx, sessionID); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	if !p.State(ctx, sessionID).IsLoading {
		t.Fatal("expected pending state after BeginLogin")
	}

	type result struct {
		o  Outcome
		st AuthState
	}
	got := make(chan result, 1)
	go func() {
		o, st := Await(ctx, p, sessionID, 30*time.Second)
		got <- result{o, st}
	}()

	// Writer settles the session with a provider error.
	p.CompleteLogin(ctx, sessionID, "ignored", "", "access_denied")

	select {
	case r := <-got:
		if r.o != RedirectHome {
			t.Errorf("expected RedirectHome, got %v", r.o)
		}
		if r.st.Error != "access_denied" {
			t.Errorf("expected access_denied error, got %q", r.st.Error)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Await did not resolve")
	}
}

func TestAwaitAmbiguousTimesOutToHome(t *testing.T) {
	p, sessionID := newTestProvider(t, "")

	// Session is settled with neither token nor error.
	st := p.State(context.Background(), sessionID)
	if Resolve(st) != StayAmbiguous {
		t.Fatalf("expected ambiguous baseline, got %v", Resolve(st))
	}

	o, _ := Await(context.Background(), p, sessionID, 50*time.Millisecond)
	if o != RedirectHome {
		t.Errorf("expected ambiguous state to fail home after patience, got %v", o)
	}
}

func TestAwaitContextCancelKeepsPending(t *testing.T) {
	p, sessionID := newTestProvider(t, "")

	if _, err := p.BeginLogin(context.Background(), sessionID); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	o, _ := Await(ctx, p, sessionID, time.Minute)
	if o != StayPending {
		t.Errorf("expected StayPending on context end, got %v", o)
	}
}
