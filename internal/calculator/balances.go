package calculator

import (
	"sort"

	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
)

// TransactionForBalance carries the minimal view of one transaction needed
// to compute a user's position on it.
type TransactionForBalance struct {
	ID          int64
	Description string
	GroupName   string
	CreatedAt   int64
	SplitType   models.SplitType
	PayerID     int64
	PayerName   string
	Total       money.Money
	Allocations []models.Allocation
}

// Balance is one transaction's contribution to a user's net position.
type Balance struct {
	TransactionID int64
	Description   string
	GroupName     string
	CreatedAt     int64
	SplitType     models.SplitType
	PayerName     string
	Total         money.Money

	// PendingAmount is positive when the user is owed money on this
	// transaction, negative when they owe, and nil when the transaction
	// does not involve them as payer or payee.
	PendingAmount *money.Money
}

// ComputeBalances computes the signed pending amount of each transaction for
// the given user:
//
//   - payer: +sum of the transaction's allocations (what they are owed back)
//   - payee: -their own allocation amount
//   - otherwise: nil (a group member with no stake in this transaction)
//
// The result is ordered by creation time, ties broken by transaction id, so
// identical input state always yields the same sequence.
func ComputeBalances(userID int64, transactions []TransactionForBalance) []Balance {
	sorted := make([]TransactionForBalance, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt != sorted[j].CreatedAt {
			return sorted[i].CreatedAt < sorted[j].CreatedAt
		}
		return sorted[i].ID < sorted[j].ID
	})

	balances := make([]Balance, 0, len(sorted))
	for _, tx := range sorted {
		balances = append(balances, Balance{
			TransactionID: tx.ID,
			Description:   tx.Description,
			GroupName:     tx.GroupName,
			CreatedAt:     tx.CreatedAt,
			SplitType:     tx.SplitType,
			PayerName:     tx.PayerName,
			Total:         tx.Total,
			PendingAmount: pendingAmount(userID, tx),
		})
	}
	return balances
}

func pendingAmount(userID int64, tx TransactionForBalance) *money.Money {
	if tx.PayerID == userID {
		var owed money.Money
		for _, a := range tx.Allocations {
			owed = owed.Add(a.Amount)
		}
		return &owed
	}
	for _, a := range tx.Allocations {
		if a.PayeeID == userID {
			owes := a.Amount.Neg()
			return &owes
		}
	}
	return nil
}
