package changes

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"aerobook/internal/shared/constants"
	"aerobook/pkg/cache"

	"github.com/google/uuid"
)

// ErrIntentNotFound is returned when no pending change exists for a token
// or ticket, either because it was never created, already consumed, or
// expired.
var ErrIntentNotFound = errors.New("pending change not found")

// IntentStore persists the suspended state of a payment-gated change
// between the redirect and the gateway callback.
type IntentStore interface {
	// Create stores the intent under both the token and the ticket id with
	// the configured TTL, replacing any stale intent for the same ticket.
	Create(ctx context.Context, intent *PendingChange) error

	GetByToken(ctx context.Context, token string) (*PendingChange, error)
	GetByTicket(ctx context.Context, ticketID uuid.UUID) (*PendingChange, error)

	// Consume atomically-enough removes the intent under both keys once the
	// change is applied (or abandoned), so a replayed callback finds nothing.
	Consume(ctx context.Context, intent *PendingChange) error
}

type intentStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewIntentStore(cacheService cache.Service, ttl time.Duration) IntentStore {
	return &intentStore{
		cache: cacheService,
		ttl:   ttl,
	}
}

// NewIntentToken returns an opaque correlation token for the payment
// gateway round trip. It is the only value the callback needs to carry, so
// nothing the gateway echoes back is trusted as an identifier.
func NewIntentToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate intent token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *intentStore) Create(ctx context.Context, intent *PendingChange) error {
	// A previous intent for the same ticket may still be live under its own
	// token. Drop it first so only one intent per ticket can ever apply.
	if prev, err := s.GetByTicket(ctx, intent.TicketID); err == nil {
		if err := s.Consume(ctx, prev); err != nil {
			return err
		}
	}

	if err := s.cache.Set(ctx, constants.BuildPendingChangeTokenKey(intent.Token), intent, s.ttl); err != nil {
		return fmt.Errorf("failed to store pending change by token: %w", err)
	}
	if err := s.cache.Set(ctx, constants.BuildPendingChangeTicketKey(intent.TicketID.String()), intent, s.ttl); err != nil {
		return fmt.Errorf("failed to store pending change by ticket: %w", err)
	}
	return nil
}

func (s *intentStore) GetByToken(ctx context.Context, token string) (*PendingChange, error) {
	return s.get(ctx, constants.BuildPendingChangeTokenKey(token))
}

func (s *intentStore) GetByTicket(ctx context.Context, ticketID uuid.UUID) (*PendingChange, error) {
	return s.get(ctx, constants.BuildPendingChangeTicketKey(ticketID.String()))
}

func (s *intentStore) get(ctx context.Context, key string) (*PendingChange, error) {
	var intent PendingChange
	if err := s.cache.Get(ctx, key, &intent); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (s *intentStore) Consume(ctx context.Context, intent *PendingChange) error {
	return s.cache.Delete(ctx,
		constants.BuildPendingChangeTokenKey(intent.Token),
		constants.BuildPendingChangeTicketKey(intent.TicketID.String()),
	)
}
