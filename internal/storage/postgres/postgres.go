// Package postgres provides a Postgres-backed implementation of
// storage.Store using lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
	"github.com/mkhare/splitledger/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using Postgres.
type PostgresStore struct {
	db *sql.DB
}

// New connects to the database at url and runs migrations.
func New(url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Postgres error classes for constraint violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translateErr maps Postgres constraint failures onto storage sentinels.
func translateErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %v", storage.ErrMissingRef, err)
		}
	}
	return err
}

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email, created_at) VALUES ($1, $2, $3) RETURNING id",
		user.Name, user.Email, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateErr(err))
	}
	return nil
}

// CreateGroup inserts a group and its memberships as one transaction.
func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"INSERT INTO groups (name, created_at) VALUES ($1, $2) RETURNING id",
		group.Name, group.CreatedAt,
	).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", translateErr(err))
	}

	for _, userID := range group.Members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)",
			group.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", translateErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindGroupWithMembers loads a group and its member ids.
func (s *PostgresStore) FindGroupWithMembers(ctx context.Context, groupID int64) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = $1",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return group, nil
}

// CreateTransactionWithAllocations persists a transaction and its
// allocations atomically.
func (s *PostgresStore) CreateTransactionWithAllocations(ctx context.Context, txn *models.Transaction, allocations []models.Allocation) error {
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO transactions (group_id, payer_id, total, split_type, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		txn.GroupID, txn.PayerID, int64(txn.Total), string(txn.SplitType), txn.Description, txn.CreatedAt,
	).Scan(&txn.ID)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", translateErr(err))
	}

	for i := range allocations {
		a := &allocations[i]
		a.TransactionID = txn.ID
		err := tx.QueryRowContext(ctx,
			"INSERT INTO allocations (transaction_id, payee_id, amount) VALUES ($1, $2, $3) RETURNING id",
			a.TransactionID, a.PayeeID, int64(a.Amount),
		).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", translateErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// QueryTransactionsForUser returns the transactions of every group the user
// belongs to, narrowed by the filter.
func (s *PostgresStore) QueryTransactionsForUser(ctx context.Context, userID int64, filter storage.Filter) ([]storage.TransactionRow, error) {
	query := `
		SELECT t.id, t.description, t.group_id, g.name, t.created_at, t.split_type, t.payer_id, u.name, t.total
		FROM transactions t
		JOIN groups g ON g.id = t.group_id
		JOIN users u ON u.id = t.payer_id
		WHERE t.group_id IN (SELECT gm.group_id FROM group_members gm WHERE gm.user_id = $1)`
	args := []any{userID}

	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		query += fmt.Sprintf(" AND t.group_id = $%d", len(args))
	}
	if filter.Start != nil {
		args = append(args, filter.Start.Unix())
		query += fmt.Sprintf(" AND t.created_at >= $%d", len(args))
	}
	if filter.End != nil {
		args = append(args, filter.End.Unix())
		query += fmt.Sprintf(" AND t.created_at <= $%d", len(args))
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

func (s *PostgresStore) transactionAllocations(ctx context.Context, transactionID int64) ([]models.Allocation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, transaction_id, payee_id, amount FROM allocations WHERE transaction_id = $1 ORDER BY payee_id",
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
