package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villageessence/marketplace-backend/pkg/logger"
)

// KV is the durable collaborator holding serialized carts keyed by session.
type KV interface {
	GetCart(ctx context.Context, sessionID string) (string, error)
	SetCart(ctx context.Context, sessionID, payload string) error
}

// Subscriber receives the full line list after every cart mutation.
type Subscriber func(lines []LineItem)

// Store owns the line list for one shopper session. It rehydrates lazily
// from the KV collaborator, failing open to an empty cart on missing keys,
// corrupt payloads, or storage errors, and persists after every mutation.
// Concurrent holders of the same session key are last-write-wins.
type Store struct {
	mu        sync.Mutex
	kv        KV
	sessionID string
	logg      *logger.Logger
	lines     []LineItem
	loaded    bool
	subs      []Subscriber
}

// NewStore builds a session-scoped cart store.
func NewStore(kv KV, sessionID string, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart kv is required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	return &Store{
		kv:        kv,
		sessionID: sessionID,
		logg:      logg,
	}, nil
}

// SessionID returns the session this store is bound to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Subscribe registers a callback invoked after each mutation with the new
// line list. Not safe to call concurrently with mutations.
func (s *Store) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.subs = append(s.subs, fn)
}

// Lines returns a copy of the current line list.
func (s *Store) Lines(ctx context.Context) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return copyLines(s.lines)
}

// Total returns the cart total.
func (s *Store) Total(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return Total(s.lines)
}

// Count returns the summed quantity across lines.
func (s *Store) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return Count(s.lines)
}

// Add merges the snapshot into the cart and persists the result.
func (s *Store) Add(ctx context.Context, snapshot ProductSnapshot, requested int) []LineItem {
	return s.mutate(ctx, func(lines []LineItem) []LineItem {
		return Add(lines, snapshot, requested)
	})
}

// Remove drops the line for the product and persists the result.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID) []LineItem {
	return s.mutate(ctx, func(lines []LineItem) []LineItem {
		return Remove(lines, productID)
	})
}

// UpdateQuantity adjusts the line quantity and persists the result.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, requested int) []LineItem {
	return s.mutate(ctx, func(lines []LineItem) []LineItem {
		return UpdateQuantity(lines, productID, requested)
	})
}

// Clear empties the cart and persists the result.
func (s *Store) Clear(ctx context.Context) []LineItem {
	return s.mutate(ctx, func(lines []LineItem) []LineItem {
		return Clear(lines)
	})
}

func (s *Store) mutate(ctx context.Context, op func([]LineItem) []LineItem) []LineItem {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.lines = op(s.lines)
	s.persist(ctx)
	result := copyLines(s.lines)
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(copyLines(result))
	}
	return result
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.lines = []LineItem{}

	payload, err := s.kv.GetCart(ctx, s.sessionID)
	if err != nil || payload == "" {
		if err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithCartSession(ctx, s.sessionID), "cart rehydrate failed, starting empty")
		}
		return
	}

	var lines []LineItem
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithCartSession(ctx, s.sessionID), "cart payload corrupt, starting empty")
		}
		return
	}
	s.lines = lines
}

func (s *Store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.lines)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCartSession(ctx, s.sessionID), "serializing cart", err)
		}
		return
	}
	if err := s.kv.SetCart(ctx, s.sessionID, string(payload)); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithCartSession(ctx, s.sessionID), "persisting cart failed")
	}
}

func copyLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}
