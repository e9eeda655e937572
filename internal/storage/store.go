// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
)

// Sentinel errors implementations translate driver failures into. The
// service layer maps these onto client-facing error kinds.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate record")

	// ErrMissingRef means a referenced record (user, group) does not
	// exist. A write that hits this is rolled back entirely.
	ErrMissingRef = errors.New("referenced record does not exist")
)

// Filter narrows a balance query to one group and/or a creation-time window.
// Nil fields are ignored.
type Filter struct {
	GroupID *int64
	Start   *time.Time
	End     *time.Time
}

// TransactionRow is one transaction as the balance aggregator needs it:
// joined with group and payer names and carrying its allocations.
type TransactionRow struct {
	ID          int64
	Description string
	GroupID     int64
	GroupName   string
	CreatedAt   int64
	SplitType   models.SplitType
	PayerID     int64
	PayerName   string
	Total       money.Money
	Allocations []models.Allocation
}

// Store is the persistence interface for the split ledger. Implementations
// exist for SQLite and Postgres; the one to use is chosen at process start
// and injected, never selected through ambient state.
type Store interface {
	// CreateUser persists a new user, populating ID and CreatedAt.
	// Returns ErrDuplicate if the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a group and its memberships as one unit,
	// populating ID and CreatedAt. Returns ErrMissingRef if any member
	// id does not name an existing user; nothing is persisted then.
	CreateGroup(ctx context.Context, group *models.Group) error

	// FindGroupWithMembers loads a group and its member ids.
	// Returns ErrNotFound if the group does not exist.
	FindGroupWithMembers(ctx context.Context, groupID int64) (*models.Group, error)

	// CreateTransactionWithAllocations persists a transaction and all of
	// its allocations atomically, populating the transaction's ID and
	// CreatedAt. If any allocation's payee no longer exists the whole
	// unit is rolled back and ErrMissingRef is returned; readers never
	// observe a transaction with a strict subset of its allocations.
	CreateTransactionWithAllocations(ctx context.Context, tx *models.Transaction, allocations []models.Allocation) error

	// QueryTransactionsForUser returns the transactions of every group
	// the user belongs to, narrowed by the filter, ordered by creation
	// time then id.
	QueryTransactionsForUser(ctx context.Context, userID int64, filter Filter) ([]TransactionRow, error)

	// Close releases any resources held by the store.
	Close() error
}
