// Package memory provides in-process adapter implementations used when no
// external infrastructure is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aptradar/aptradar/internal/core/domain"
)

// Mailbox is the in-process ports.CommandMailbox: one slot guarded by a
// mutex with a write deadline. Last write wins; reads consume the slot.
type Mailbox struct {
	mu       sync.Mutex
	cmd      domain.UICommand
	occupied bool
	deadline time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewMailbox builds a mailbox with the given entry TTL.
func NewMailbox(ttl time.Duration) *Mailbox {
	return &Mailbox{ttl: ttl, now: time.Now}
}

// Post overwrites the slot and resets its TTL.
func (m *Mailbox) Post(_ context.Context, cmd domain.UICommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmd = cmd
	m.occupied = true
	m.deadline = m.now().Add(m.ttl)
	return nil
}

// Take reads and clears the slot. Expired entries count as empty.
func (m *Mailbox) Take(_ context.Context) (domain.UICommand, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.occupied || m.now().After(m.deadline) {
		m.occupied = false
		return domain.UICommand{}, false, nil
	}
	cmd := m.cmd
	m.occupied = false
	m.cmd = domain.UICommand{}
	return cmd, true, nil
}
