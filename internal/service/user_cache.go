package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ecofinds/internal/domain"
)

// UserCache guarda proyecciones sanitizadas de usuario para abaratar
// la introspeccion de sesion. Un miss nunca es un error fatal: el
// servicio cae al repositorio.
type UserCache interface {
	Get(id string) (domain.SanitizedUser, bool, error)
	Set(user domain.SanitizedUser, ttl time.Duration) error
	Invalidate(id string) error
}

type memoryUserCache struct {
	mu    sync.Mutex
	items map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	user      domain.SanitizedUser
	expiresAt time.Time
}

func NewMemoryUserCache() UserCache {
	return &memoryUserCache{
		items: make(map[string]memoryCacheEntry),
	}
}

func (c *memoryUserCache) Get(id string) (domain.SanitizedUser, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[id]
	if !ok {
		return domain.SanitizedUser{}, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, id)
		return domain.SanitizedUser{}, false, nil
	}
	return entry.user, true, nil
}

func (c *memoryUserCache) Set(user domain.SanitizedUser, ttl time.Duration) error {
	if strings.TrimSpace(user.ID) == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[user.ID] = memoryCacheEntry{
		user:      user,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (c *memoryUserCache) Invalidate(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

type redisUserCache struct {
	client *redis.Client
	prefix string
}

func NewRedisUserCache(client *redis.Client) UserCache {
	if client == nil {
		return nil
	}
	return &redisUserCache{
		client: client,
		prefix: "auth:user:",
	}
}

func (c *redisUserCache) Get(id string) (domain.SanitizedUser, bool, error) {
	if strings.TrimSpace(id) == "" {
		return domain.SanitizedUser{}, false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return domain.SanitizedUser{}, false, nil
	}
	if err != nil {
		return domain.SanitizedUser{}, false, err
	}
	var user domain.SanitizedUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.SanitizedUser{}, false, err
	}
	return user, true, nil
}

func (c *redisUserCache) Set(user domain.SanitizedUser, ttl time.Duration) error {
	if strings.TrimSpace(user.ID) == "" {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+user.ID, raw, ttl).Err()
}

func (c *redisUserCache) Invalidate(id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.client.Del(ctx, c.prefix+id).Err()
}
