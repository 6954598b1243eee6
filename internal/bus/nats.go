package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher sends JSON payloads to NATS subjects.
type Publisher struct {
	Conn *nats.Conn
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("farmdash"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{Conn: conn}, nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	if p.Conn == nil {
		return nil
	}
	if err := p.Conn.Drain(); err != nil {
		p.Conn.Close()
		return fmt.Errorf("drain nats connection: %w", err)
	}
	return nil
}

// Publish marshals payload as JSON and publishes it on subject.
func (p *Publisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	return p.Conn.Publish(subject, data)
}
