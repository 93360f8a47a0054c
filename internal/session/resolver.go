package session

import (
	"context"
	"time"
)

// Outcome is the callback resolver's decision for a given auth state.
type Outcome int

const (
	// StayPending means the exchange has not settled; keep rendering the
	// callback view.
	StayPending Outcome = iota
	// RedirectDocs navigates to the documentation entry route, replacing
	// history so the callback URL is not revisitable.
	RedirectDocs
	// RedirectHome navigates to the home route, replacing history.
	RedirectHome
	// StayAmbiguous means the state settled with neither a token nor an
	// error. The resolver does not navigate on its own; callers decide
	// how long to tolerate it (see Await).
	StayAmbiguous
)

func (o Outcome) String() string {
	switch o {
	case StayPending:
		return "pending"
	case RedirectDocs:
		return "redirect-docs"
	case RedirectHome:
		return "redirect-home"
	case StayAmbiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Target returns the route an outcome navigates to, or "" for the stay
// outcomes.
func (o Outcome) Target() string {
	switch o {
	case RedirectDocs:
		return "/docs"
	case RedirectHome:
		return "/"
	}
	return ""
}

// Resolve maps an auth state to the resolver outcome. Authentication wins
// over a stale error; a settled state with neither is ambiguous.
func Resolve(st AuthState) Outcome {
	if st.IsLoading {
		return StayPending
	}
	if st.IsAuthenticated() {
		return RedirectDocs
	}
	if st.Error != "" {
		return RedirectHome
	}
	return StayAmbiguous
}

// Await subscribes to the session and blocks until the resolver reaches a
// redirect outcome. The ambiguous settled state is tolerated for at most
// patience before being treated as a failure; this closes the silent-stall
// gap where a provider settles with neither token nor error.
//
// The subscription is registered before the first state read so an update
// landing in between is not missed. It is torn down on return. If ctx ends
// first, the current outcome is returned as-is.
func Await(ctx context.Context, p *Provider, sessionID string, patience time.Duration) (Outcome, AuthState) {
	updates, cancel := p.Subscribe(sessionID)
	defer cancel()

	if patience <= 0 {
		patience = 5 * time.Second
	}

	st := p.State(ctx, sessionID)

	var timer *time.Timer
	var deadline <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		switch o := Resolve(st); o {
		case RedirectDocs, RedirectHome:
			return o, st
		case StayAmbiguous:
			if timer == nil {
				timer = time.NewTimer(patience)
				deadline = timer.C
			}
		case StayPending:
			if timer != nil {
				timer.Stop()
				timer = nil
				deadline = nil
			}
		}

		select {
		case st = <-updates:
		case <-deadline:
			return RedirectHome, st
		case <-ctx.Done():
			return Resolve(st), st
		}
	}
}
