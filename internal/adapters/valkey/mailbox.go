package valkey

import (
	"context"
	"encoding/json"
	"time"

	valkeygo "github.com/valkey-io/valkey-go"

	"github.com/aptradar/aptradar/internal/core/domain"
)

const mailboxKey = "agent:ui_command"

// Mailbox implements ports.CommandMailbox on a single Valkey key.
// SET with EX gives last-write-wins plus automatic TTL expiry; GETDEL
// makes reads consume the slot atomically.
type Mailbox struct {
	client valkeygo.Client
	ttl    time.Duration
}

// NewMailbox builds a mailbox sharing the cache's Valkey client.
func NewMailbox(cache *Cache, ttl time.Duration) *Mailbox {
	return &Mailbox{client: cache.client, ttl: ttl}
}

// Post overwrites the slot and resets its TTL.
func (m *Mailbox) Post(ctx context.Context, cmd domain.UICommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	res := m.client.Do(ctx,
		m.client.B().Set().Key(mailboxKey).Value(string(data)).Ex(m.ttl).Build(),
	)
	return res.Error()
}

// Take reads and clears the slot.
func (m *Mailbox) Take(ctx context.Context) (domain.UICommand, bool, error) {
	res := m.client.Do(ctx, m.client.B().Getdel().Key(mailboxKey).Build())
	if err := res.Error(); err != nil {
		if valkeygo.IsValkeyNil(err) {
			return domain.UICommand{}, false, nil
		}
		return domain.UICommand{}, false, err
	}
	data, err := res.AsBytes()
	if err != nil {
		return domain.UICommand{}, false, err
	}
	var cmd domain.UICommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return domain.UICommand{}, false, err
	}
	return cmd, true, nil
}
