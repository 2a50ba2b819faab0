package server

import (
	"context"

	"ladangwatch/pkg/types"
)

type sessionEventKind string

const (
	sessionSignedIn  sessionEventKind = "signed_in"
	sessionSignedOut sessionEventKind = "signed_out"
)

// sessionEvent is a provider-pushed session-state transition. Events are
// queued and drained by a single consumer so no handler ever re-enters an
// overlapping session mutation.
type sessionEvent struct {
	kind     sessionEventKind
	identity types.Identity
}

func (s *Service) enqueueSessionEvent(ev sessionEvent) {
	select {
	case s.events <- ev:
	default:
		s.logger.WithField("kind", ev.kind).Warn("session event queue full, dropping event")
	}
}

// RunSessionEvents drains the session event queue until the context is
// cancelled, processing one event to completion before taking the next.
func (s *Service) RunSessionEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.handleSessionEvent(ctx, ev)
		}
	}
}

func (s *Service) handleSessionEvent(ctx context.Context, ev sessionEvent) {
	switch ev.kind {
	case sessionSignedIn:
		// Keep the profile's email in step with the identity provider.
		// Update-only: profile creation stays an explicit setup step.
		if err := s.profileRepo.SyncEmail(ctx, ev.identity.ID, ev.identity.Email); err != nil {
			s.logger.WithError(err).WithField("user_id", ev.identity.ID).Warn("failed to sync profile email")
			return
		}

		s.logger.WithField("user_id", ev.identity.ID).Info("session signed in")
	case sessionSignedOut:
		s.logger.Info("session signed out")
	}
}
