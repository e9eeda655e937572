package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
	"github.com/mkhare/splitledger/internal/storage"
)

// CreateTransactionWithAllocations persists a transaction and all of its
// allocations in one DB transaction. Any failure, including an allocation
// whose payee vanished since validation, rolls the whole unit back.
func (s *SQLiteStore) CreateTransactionWithAllocations(ctx context.Context, txn *models.Transaction, allocations []models.Allocation) error {
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (group_id, payer_id, total, split_type, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		txn.GroupID, txn.PayerID, int64(txn.Total), string(txn.SplitType), txn.Description, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", translateErr(err))
	}

	txn.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}

	for i := range allocations {
		a := &allocations[i]
		a.TransactionID = txn.ID

		res, err := tx.ExecContext(ctx,
			"INSERT INTO allocations (transaction_id, payee_id, amount) VALUES (?, ?, ?)",
			a.TransactionID, a.PayeeID, int64(a.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", translateErr(err))
		}
		if a.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read allocation id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// QueryTransactionsForUser returns the transactions of every group the user
// belongs to, narrowed by the filter, with group and payer names joined in
// and each transaction's allocations attached.
func (s *SQLiteStore) QueryTransactionsForUser(ctx context.Context, userID int64, filter storage.Filter) ([]storage.TransactionRow, error) {
	query := `
		SELECT t.id, t.description, t.group_id, g.name, t.created_at, t.split_type, t.payer_id, u.name, t.total
		FROM transactions t
		JOIN groups g ON g.id = t.group_id
		JOIN users u ON u.id = t.payer_id
		WHERE t.group_id IN (SELECT gm.group_id FROM group_members gm WHERE gm.user_id = ?)`
	args := []any{userID}

	if filter.GroupID != nil {
		query += " AND t.group_id = ?"
		args = append(args, *filter.GroupID)
	}
	if filter.Start != nil {
		query += " AND t.created_at >= ?"
		args = append(args, filter.Start.Unix())
	}
	if filter.End != nil {
		query += " AND t.created_at <= ?"
		args = append(args, filter.End.Unix())
	}
	query += " ORDER BY t.created_at, t.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []storage.TransactionRow
	for rows.Next() {
		var row storage.TransactionRow
		var total int64
		var splitType string
		if err := rows.Scan(&row.ID, &row.Description, &row.GroupID, &row.GroupName,
			&row.CreatedAt, &splitType, &row.PayerID, &row.PayerName, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		row.SplitType = models.SplitType(splitType)
		row.Total = money.Money(total)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	for i := range result {
		allocations, err := s.transactionAllocations(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Allocations = allocations
	}
	return result, nil
}

func (s *SQLiteStore) transactionAllocations(ctx context.Context, transactionID int64) ([]models.Allocation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, transaction_id, payee_id, amount FROM allocations WHERE transaction_id = ? ORDER BY payee_id",
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []models.Allocation
	for rows.Next() {
		var a models.Allocation
		var amount int64
		if err := rows.Scan(&a.ID, &a.TransactionID, &a.PayeeID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		a.Amount = money.Money(amount)
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocations, nil
}
