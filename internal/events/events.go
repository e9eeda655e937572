// Package events publishes ledger notifications for downstream consumers.
// Publishing is best-effort: a failed publish is logged by the caller and
// never fails the request that produced it.
package events

import "context"

// TransactionRecorded is emitted after a transaction and its allocations
// have been persisted.
type TransactionRecorded struct {
	TransactionID int64   `json:"transaction_id"`
	GroupID       int64   `json:"group_id"`
	PayerID       int64   `json:"payer_id"`
	Total         float64 `json:"total"`
	SplitType     string  `json:"split_type"`
	RecordedAt    int64   `json:"recorded_at"`
}

// Publisher emits ledger events.
type Publisher interface {
	// PublishTransactionRecorded emits a transaction-recorded event.
	PublishTransactionRecorded(ctx context.Context, evt TransactionRecorded) error
}

// Nop is a Publisher that discards everything. Used when no broker is
// configured.
type Nop struct{}

// PublishTransactionRecorded discards the event.
func (Nop) PublishTransactionRecorded(ctx context.Context, evt TransactionRecorded) error {
	return nil
}
