package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// NotificationDeduper tracks processed gateway notifications by PSP
// reference.
type NotificationDeduper interface {
	Seen(ctx context.Context, pspReference string) (bool, error)
}

type redisNotificationDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisNotificationDeduper) Seen(ctx context.Context, pspReference string) (bool, error) {
	key := d.prefix + ":" + pspReference
	ok, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// false => already exists => duplicate
	return !ok, nil
}

type memoryNotificationDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryNotificationDeduper(ttl time.Duration) *memoryNotificationDeduper {
	now := time.Now()
	return &memoryNotificationDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryNotificationDeduper) Seen(_ context.Context, pspReference string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[pspReference]; ok && exp.After(now) {
		return true, nil
	}

	d.seen[pspReference] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for ref, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, ref)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}

	return false, nil
}

// NewNotificationDeduper builds a Redis deduper and falls back to
// in-memory on failure.
func NewNotificationDeduper(addr, pass string, db int, ttl time.Duration) (NotificationDeduper, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if addr == "" {
		return newMemoryNotificationDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryNotificationDeduper(ttl), err
	}

	return &redisNotificationDeduper{
		client: client,
		prefix: "gw:notification",
		ttl:    ttl,
	}, nil
}

// WebhookDedup drops duplicate gateway notifications by PSP reference.
// Unparseable bodies pass through; the handler rejects them itself.
func WebhookDedup(deduper NotificationDeduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			req := c.Request()
			if req.Body == nil {
				return next(c)
			}

			rawBody, err := io.ReadAll(req.Body)
			if err != nil {
				return next(c)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(rawBody))
			if len(rawBody) == 0 {
				return next(c)
			}

			var payload struct {
				NotificationItems []struct {
					NotificationRequestItem struct {
						PSPReference string `json:"pspReference"`
					} `json:"NotificationRequestItem"`
				} `json:"notificationItems"`
			}
			if err := json.Unmarshal(rawBody, &payload); err != nil ||
				len(payload.NotificationItems) == 0 ||
				payload.NotificationItems[0].NotificationRequestItem.PSPReference == "" {
				return next(c)
			}

			pspReference := payload.NotificationItems[0].NotificationRequestItem.PSPReference
			isDuplicate, err := deduper.Seen(req.Context(), pspReference)
			if err != nil {
				return next(c)
			}
			if isDuplicate {
				// The gateway only needs the accepted body to stop
				// redelivery.
				return c.String(http.StatusOK, "[accepted]")
			}

			return next(c)
		}
	}
}
