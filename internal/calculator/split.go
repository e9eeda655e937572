// Package calculator holds the split ledger's pure decision logic: turning a
// transaction into per-member allocations, validating membership, and
// aggregating allocations into signed balances. Nothing here touches storage.
package calculator

import (
	"sort"

	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
)

// ComputeAllocations turns a transaction request into the allocations to
// persist: one entry per group member except the payer, whose share stays
// implicit (total minus the sum of the returned amounts).
//
// memberIDs is the full member set of the transaction's group and must
// contain payerID. exactAmounts is required for EXACT splits and ignored
// otherwise. Entries come back ordered by member id.
func ComputeAllocations(total money.Money, splitType models.SplitType, payerID int64, memberIDs []int64, exactAmounts map[int64]money.Money) ([]models.Allocation, error) {
	if !total.IsPositive() {
		return nil, errdefs.Validation("You need to specify total value")
	}
	if len(memberIDs) == 0 {
		return nil, errdefs.NotFound("Invalid group in request")
	}
	if !Contains(memberIDs, payerID) {
		return nil, errdefs.BusinessRule("Payer is not a member of the group")
	}

	switch splitType {
	case models.SplitEqual:
		return equalAllocations(total, payerID, memberIDs), nil
	case models.SplitExact:
		return exactAllocations(total, payerID, memberIDs, exactAmounts)
	default:
		return nil, errdefs.Validation("You need to specify split type")
	}
}

// equalAllocations gives each of the N members total/N. When the total is
// not divisible by N the leftover subunits go one each to the first members
// in ascending id order, so the N shares always sum to the total exactly.
// The payer's share is counted but not returned.
func equalAllocations(total money.Money, payerID int64, memberIDs []int64) []models.Allocation {
	members := sortedUnique(memberIDs)
	share, leftover := total.DivMod(len(members))

	allocations := make([]models.Allocation, 0, len(members)-1)
	for i, id := range members {
		amount := share
		if int64(i) < leftover {
			amount++
		}
		if id == payerID {
			continue
		}
		allocations = append(allocations, models.Allocation{PayeeID: id, Amount: amount})
	}
	return allocations
}

// exactAllocations uses the caller-supplied per-member amounts. The map's
// key set must equal the group's member set exactly and the amounts must sum
// to the total; the payer's entry is dropped from the result.
func exactAllocations(total money.Money, payerID int64, memberIDs []int64, exactAmounts map[int64]money.Money) ([]models.Allocation, error) {
	if len(exactAmounts) == 0 {
		return nil, errdefs.BusinessRule("Minimum one payee required")
	}

	supplied := make([]int64, 0, len(exactAmounts))
	for id := range exactAmounts {
		supplied = append(supplied, id)
	}
	if !SameMembers(memberIDs, supplied) {
		return nil, errdefs.BusinessRule("All members not found")
	}

	var sum money.Money
	for _, amount := range exactAmounts {
		sum = sum.Add(amount)
	}
	if sum != total {
		return nil, errdefs.BusinessRule("Split money total is not equal to total")
	}

	members := sortedUnique(memberIDs)
	allocations := make([]models.Allocation, 0, len(members)-1)
	for _, id := range members {
		if id == payerID {
			continue
		}
		allocations = append(allocations, models.Allocation{PayeeID: id, Amount: exactAmounts[id]})
	}
	return allocations, nil
}

// sortedUnique returns the ids deduplicated and in ascending order.
func sortedUnique(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
