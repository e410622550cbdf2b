package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps one JSON document per user
type RedisCartStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCartStore creates a cart store on a shared client
func NewRedisCartStore(client redis.UniversalClient) *RedisCartStore {
	return &RedisCartStore{client: client, keyPrefix: KeyPrefix + "cart:"}
}

func (s *RedisCartStore) key(userID uuid.UUID) string {
	return s.keyPrefix + userID.String()
}

func (s *RedisCartStore) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return cart.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	c.UserID = userID
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return &c, nil
}

func (s *RedisCartStore) Save(ctx context.Context, c *cart.Cart, ttl time.Duration) error {
	if c.IsEmpty() {
		return s.Delete(ctx, c.UserID)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(c.UserID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// InMemoryCartStore is used when Redis is disabled. Carts are copied in
// and out so callers never share slices with the store.
type InMemoryCartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]storedCart
	now   func() time.Time
}

type storedCart struct {
	cart      cart.Cart
	expiresAt time.Time
}

// NewInMemoryCartStore creates an empty store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{carts: make(map[uuid.UUID]storedCart), now: time.Now}
}

func (s *InMemoryCartStore) Get(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.carts[userID]
	if !ok || s.now().After(sc.expiresAt) {
		delete(s.carts, userID)
		return cart.New(userID), nil
	}
	c := sc.cart
	c.Items = append([]cart.Item{}, sc.cart.Items...)
	return &c, nil
}

func (s *InMemoryCartStore) Save(_ context.Context, c *cart.Cart, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.carts, c.UserID)
		return nil
	}
	cp := *c
	cp.Items = append([]cart.Item{}, c.Items...)
	s.carts[c.UserID] = storedCart{cart: cp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryCartStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

var (
	_ cart.Store = (*RedisCartStore)(nil)
	_ cart.Store = (*InMemoryCartStore)(nil)
)
