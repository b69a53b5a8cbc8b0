package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/model"
)

// EventType names a change to a client's session.
type EventType string

const (
	EventSet     EventType = "session_set"
	EventCleared EventType = "session_cleared"
)

// Event tells every open tab of a client that its session changed.
type Event struct {
	Type     EventType  `json:"type"`
	ClientID string     `json:"client_id"`
	Role     model.Role `json:"role,omitempty"`
	At       time.Time  `json:"at"`
}

// Bus fans session events out to subscribers of the same client.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns a channel of events for clientID and a cancel func
	// that must be called to release the subscription.
	Subscribe(ctx context.Context, clientID string) (<-chan Event, func(), error)
}

const subscriberBuffer = 8

// LocalBus delivers events within one process.
type LocalBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewLocalBus creates an in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]chan Event)}
}

func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[ev.ClientID] {
		// Slow subscribers miss events rather than block the publisher.
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(_ context.Context, clientID string) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[clientID] == nil {
		b.subs[clientID] = make(map[int]chan Event)
	}
	b.subs[clientID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[clientID], id)
			if len(b.subs[clientID]) == 0 {
				delete(b.subs, clientID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Subscribers reports how many subscriptions clientID has.
func (b *LocalBus) Subscribers(clientID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[clientID])
}

// RedisBus delivers events through Redis PubSub so every portal instance
// sharing the Redis storage sees them.
type RedisBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisBus creates a Redis-backed bus.
func NewRedisBus(rdb *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, log: log.With().Str("component", "session_bus").Logger()}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode session event: %w", err)
	}
	if err := b.rdb.Publish(ctx, config.CacheKey.SessionEventChannel(ev.ClientID), payload).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, clientID string) (<-chan Event, func(), error) {
	pubsub := b.rdb.Subscribe(ctx, config.CacheKey.SessionEventChannel(clientID))
	// Receive confirms the subscription before any event can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe session events: %w", err)
	}

	msgs := pubsub.Channel()
	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Msg("Dropping malformed session event")
					continue
				}
				select {
				case out <- ev:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}
	return out, cancel, nil
}
