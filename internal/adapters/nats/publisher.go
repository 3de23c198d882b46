// Package natsadapter broadcasts agent UI events over NATS so any
// listener (dashboard relay, ops tooling) can react to agent actions.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aptradar/aptradar/internal/core/domain"
)

const uiSubjectPrefix = "agent.ui."

// Publisher implements ports.EventPublisher on a plain NATS connection.
// UI events are ephemeral fan-out: no JetStream, no replay.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS with reconnect-forever semantics.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// PublishUIEvent fans an event out on agent.ui.<type>.
func (p *Publisher) PublishUIEvent(_ context.Context, event *domain.UIEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(uiSubjectPrefix+event.Type, data)
}

// IsConnected reports broker connectivity, for readiness checks.
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
