package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mkhare/splitledger/internal/calculator"
	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/events"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
	"github.com/mkhare/splitledger/internal/storage"
)

// LedgerService records transactions and lists balances. It is stateless;
// every invocation is independent and the store provides the only
// synchronization.
type LedgerService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewLedgerService creates a LedgerService with the given storage backend
// and event publisher.
func NewLedgerService(store storage.Store, publisher events.Publisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// RecordTransaction validates and persists one shared expense: it resolves
// the group's member set, computes the per-member allocations, and writes
// the transaction plus its allocations as one atomic unit. Returns the new
// transaction's id.
func (s *LedgerService) RecordTransaction(ctx context.Context, groupID, payerID int64, total money.Money, splitType models.SplitType, description string, exactAmounts map[int64]money.Money) (int64, error) {
	group, err := s.store.FindGroupWithMembers(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, errdefs.NotFound("Invalid group in request")
		}
		slog.Error("RecordTransaction failed to resolve group", "group_id", groupID, "error", err)
		return 0, err
	}
	if len(group.Members) == 0 {
		return 0, errdefs.NotFound("Invalid group in request")
	}

	allocations, err := calculator.ComputeAllocations(total, splitType, payerID, group.Members, exactAmounts)
	if err != nil {
		return 0, err
	}

	txn := &models.Transaction{
		GroupID:     groupID,
		PayerID:     payerID,
		Total:       total,
		SplitType:   splitType,
		Description: description,
	}
	if err := s.store.CreateTransactionWithAllocations(ctx, txn, allocations); err != nil {
		// A member existed at validation time but vanished before the
		// write. The store has rolled the whole unit back.
		if errors.Is(err, storage.ErrMissingRef) {
			return 0, errdefs.Conflict("One or more user(s) do not exist")
		}
		slog.Error("RecordTransaction failed to persist", "group_id", groupID, "error", err)
		return 0, err
	}

	if err := s.publisher.PublishTransactionRecorded(ctx, events.TransactionRecorded{
		TransactionID: txn.ID,
		GroupID:       txn.GroupID,
		PayerID:       txn.PayerID,
		Total:         txn.Total.Float(),
		SplitType:     string(txn.SplitType),
		RecordedAt:    txn.CreatedAt,
	}); err != nil {
		slog.Warn("Failed to publish transaction event", "transaction_id", txn.ID, "error", err)
	}

	slog.Info("Transaction recorded",
		"transaction_id", txn.ID,
		"group_id", groupID,
		"payer_id", payerID,
		"split_type", splitType,
		"allocations_count", len(allocations),
	)
	return txn.ID, nil
}

// ListBalances returns the signed per-transaction pending amounts for the
// user, optionally narrowed to one group and/or a creation-time window.
func (s *LedgerService) ListBalances(ctx context.Context, userID int64, filter storage.Filter) ([]calculator.Balance, error) {
	rows, err := s.store.QueryTransactionsForUser(ctx, userID, filter)
	if err != nil {
		slog.Error("ListBalances failed", "user_id", userID, "error", err)
		return nil, err
	}

	transactions := make([]calculator.TransactionForBalance, len(rows))
	for i, row := range rows {
		transactions[i] = calculator.TransactionForBalance{
			ID:          row.ID,
			Description: row.Description,
			GroupName:   row.GroupName,
			CreatedAt:   row.CreatedAt,
			SplitType:   row.SplitType,
			PayerID:     row.PayerID,
			PayerName:   row.PayerName,
			Total:       row.Total,
			Allocations: row.Allocations,
		}
	}
	return calculator.ComputeBalances(userID, transactions), nil
}
