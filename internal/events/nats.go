package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SubjectTransactionRecorded is the NATS subject transaction events are
// published on.
const SubjectTransactionRecorded = "ledger.transactions.recorded"

// NATSPublisher publishes ledger events to a NATS server as JSON payloads.
type NATSPublisher struct {
	nc *nats.Conn
}

// Ensure NATSPublisher implements Publisher
var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// PublishTransactionRecorded publishes the event as JSON.
func (p *NATSPublisher) PublishTransactionRecorded(ctx context.Context, evt TransactionRecorded) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.nc.Publish(SubjectTransactionRecorded, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() {
	p.nc.Close()
}
