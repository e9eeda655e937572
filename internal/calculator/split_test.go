package calculator

import (
	"testing"

	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
)

func amounts(allocations []models.Allocation) map[int64]money.Money {
	out := make(map[int64]money.Money, len(allocations))
	for _, a := range allocations {
		out[a.PayeeID] = a.Amount
	}
	return out
}

func TestComputeAllocationsEqual(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Money
		payerID int64
		members []int64
		want    map[int64]money.Money
	}{
		{
			name:    "two members even total",
			total:   money.FromFloat(200),
			payerID: 1,
			members: []int64{1, 2},
			want:    map[int64]money.Money{2: 10000},
		},
		{
			name:    "three members with leftover cents",
			total:   money.FromFloat(100),
			payerID: 2,
			members: []int64{3, 1, 2},
			// 10000 / 3 = 3333 with 1 left over, assigned to member 1.
			want: map[int64]money.Money{1: 3334, 3: 3333},
		},
		{
			name:    "single member group",
			total:   money.FromFloat(50),
			payerID: 7,
			members: []int64{7},
			want:    map[int64]money.Money{},
		},
		{
			name:    "duplicate member ids collapse",
			total:   money.FromFloat(200),
			payerID: 1,
			members: []int64{1, 2, 2, 1},
			want:    map[int64]money.Money{2: 10000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocations, err := ComputeAllocations(tt.total, models.SplitEqual, tt.payerID, tt.members, nil)
			if err != nil {
				t.Fatalf("ComputeAllocations failed: %v", err)
			}
			got := amounts(allocations)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d allocations, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("member %d owes %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

// The implicit payer share plus all returned allocations must equal the
// total exactly, whatever N and however awkward the division.
func TestEqualSplitReconciles(t *testing.T) {
	totals := []money.Money{1, 99, 100, 10000, 10001, 33333, 1000000007}
	for n := 1; n <= 9; n++ {
		members := make([]int64, n)
		for i := range members {
			members[i] = int64(i + 1)
		}
		for _, total := range totals {
			allocations, err := ComputeAllocations(total, models.SplitEqual, members[0], members, nil)
			if err != nil {
				t.Fatalf("n=%d total=%d: %v", n, total, err)
			}
			if len(allocations) != n-1 {
				t.Fatalf("n=%d total=%d: got %d allocations, want %d", n, total, len(allocations), n-1)
			}

			var allocated money.Money
			for _, a := range allocations {
				allocated = allocated.Add(a.Amount)
			}
			payerShare := total.Sub(allocated)
			if !payerShare.IsPositive() {
				t.Errorf("n=%d total=%d: payer share %d not positive", n, total, payerShare)
			}
			if payerShare.Add(allocated) != total {
				t.Errorf("n=%d total=%d: shares sum to %d", n, total, payerShare.Add(allocated))
			}
		}
	}
}

func TestComputeAllocationsExact(t *testing.T) {
	alice, bob := int64(1), int64(2)
	members := []int64{alice, bob}

	tests := []struct {
		name     string
		total    money.Money
		payerID  int64
		exact    map[int64]money.Money
		want     map[int64]money.Money
		wantErr  string
		wantKind errdefs.Kind
	}{
		{
			name:    "payer share dropped",
			total:   money.FromFloat(200),
			payerID: alice,
			exact:   map[int64]money.Money{alice: money.FromFloat(140), bob: money.FromFloat(60)},
			want:    map[int64]money.Money{bob: 6000},
		},
		{
			name:     "empty map",
			total:    money.FromFloat(200),
			payerID:  alice,
			exact:    map[int64]money.Money{},
			wantErr:  "Minimum one payee required",
			wantKind: errdefs.KindBusinessRule,
		},
		{
			name:     "nil map",
			total:    money.FromFloat(200),
			payerID:  alice,
			exact:    nil,
			wantErr:  "Minimum one payee required",
			wantKind: errdefs.KindBusinessRule,
		},
		{
			name:     "missing member",
			total:    money.FromFloat(200),
			payerID:  alice,
			exact:    map[int64]money.Money{alice: money.FromFloat(200)},
			wantErr:  "All members not found",
			wantKind: errdefs.KindBusinessRule,
		},
		{
			name:    "extra non-member",
			total:   money.FromFloat(200),
			payerID: alice,
			exact: map[int64]money.Money{
				alice: money.FromFloat(100), bob: money.FromFloat(50), 99: money.FromFloat(50),
			},
			wantErr:  "All members not found",
			wantKind: errdefs.KindBusinessRule,
		},
		{
			name:     "sum below total",
			total:    money.FromFloat(200),
			payerID:  alice,
			exact:    map[int64]money.Money{alice: money.FromFloat(140), bob: money.FromFloat(30)},
			wantErr:  "Split money total is not equal to total",
			wantKind: errdefs.KindBusinessRule,
		},
		{
			name:     "sum above total by one subunit",
			total:    money.FromFloat(200),
			payerID:  alice,
			exact:    map[int64]money.Money{alice: money.FromFloat(140), bob: money.FromFloat(60.01)},
			wantErr:  "Split money total is not equal to total",
			wantKind: errdefs.KindBusinessRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocations, err := ComputeAllocations(tt.total, models.SplitExact, tt.payerID, members, tt.exact)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
				}
				if kind := errdefs.KindOf(err); kind != tt.wantKind {
					t.Errorf("kind = %v, want %v", kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeAllocations failed: %v", err)
			}
			got := amounts(allocations)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d allocations, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("member %d owes %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

func TestComputeAllocationsInputChecks(t *testing.T) {
	tests := []struct {
		name      string
		total     money.Money
		splitType models.SplitType
		payerID   int64
		members   []int64
		wantErr   string
		wantKind  errdefs.Kind
	}{
		{
			name:      "zero total",
			total:     0,
			splitType: models.SplitEqual,
			payerID:   1,
			members:   []int64{1, 2},
			wantErr:   "You need to specify total value",
			wantKind:  errdefs.KindValidation,
		},
		{
			name:      "empty member set",
			total:     money.FromFloat(100),
			splitType: models.SplitEqual,
			payerID:   1,
			members:   nil,
			wantErr:   "Invalid group in request",
			wantKind:  errdefs.KindNotFound,
		},
		{
			name:      "payer not a member",
			total:     money.FromFloat(100),
			splitType: models.SplitEqual,
			payerID:   99,
			members:   []int64{1, 2},
			wantErr:   "Payer is not a member of the group",
			wantKind:  errdefs.KindBusinessRule,
		},
		{
			name:      "unknown split type",
			total:     money.FromFloat(100),
			splitType: "HALVES",
			payerID:   1,
			members:   []int64{1, 2},
			wantErr:   "You need to specify split type",
			wantKind:  errdefs.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeAllocations(tt.total, tt.splitType, tt.payerID, tt.members, nil)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
			if kind := errdefs.KindOf(err); kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}
