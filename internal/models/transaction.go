package models

import "github.com/mkhare/splitledger/internal/money"

// SplitType selects how a transaction's total is apportioned.
type SplitType string

const (
	// SplitEqual divides the total evenly across all group members,
	// payer included.
	SplitEqual SplitType = "EQUAL"

	// SplitExact uses caller-supplied per-member amounts that must
	// reconcile to the total.
	SplitExact SplitType = "EXACT"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	return t == SplitEqual || t == SplitExact
}

// Transaction is one shared expense, paid in full by the payer on behalf of
// the group. Immutable once created.
type Transaction struct {
	// ID is the database-assigned identifier.
	ID int64

	// GroupID is the group this transaction belongs to.
	GroupID int64

	// PayerID is the member who advanced the money. Must be a member of
	// the group.
	PayerID int64

	// Total is the full amount of the expense.
	Total money.Money

	// SplitType is how the total is apportioned among members.
	SplitType SplitType

	// Description is an optional note.
	Description string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}

// Allocation is one member's owed share of a transaction. The payer never
// has an allocation row; their share is the total minus the sum of the
// transaction's allocations.
type Allocation struct {
	// ID is the database-assigned identifier.
	ID int64

	// TransactionID is the transaction this allocation belongs to.
	TransactionID int64

	// PayeeID is the member who owes this amount to the payer.
	PayeeID int64

	// Amount is how much the payee owes.
	Amount money.Money
}
