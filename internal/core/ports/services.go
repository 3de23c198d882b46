package ports

import (
	"context"

	"github.com/aptradar/aptradar/internal/core/domain"
)

// EventPublisher broadcasts agent UI events to connected listeners.
type EventPublisher interface {
	PublishUIEvent(ctx context.Context, event *domain.UIEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// CommandMailbox is the single-slot agent→UI command channel.
// A second Post before the first Take overwrites the slot; entries
// expire after a fixed TTL. There is no ordering across producers.
type CommandMailbox interface {
	// Post stores a command, replacing whatever is in the slot.
	Post(ctx context.Context, cmd domain.UICommand) error
	// Take reads and clears the slot. ok is false when the slot is
	// empty or the entry has expired.
	Take(ctx context.Context) (cmd domain.UICommand, ok bool, err error)
}
