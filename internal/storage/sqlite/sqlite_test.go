package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
	"github.com/mkhare/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, name, email string) int64 {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user.ID
}

func TestCreateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected user ID to be assigned")
	}
	if user.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}

	t.Run("duplicate email", func(t *testing.T) {
		dup := &models.User{Name: "Other Alice", Email: "alice@example.com"}
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("CreateUser duplicate = %v, want ErrDuplicate", err)
		}
	})
}

func TestCreateGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	bob := createUser(t, store, "Bob", "bob@example.com")

	group := &models.Group{Name: "Flat", Members: []int64{alice, bob}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == 0 {
		t.Error("expected group ID to be assigned")
	}

	loaded, err := store.FindGroupWithMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("FindGroupWithMembers failed: %v", err)
	}
	if loaded.Name != "Flat" {
		t.Errorf("Name = %q, want Flat", loaded.Name)
	}
	if len(loaded.Members) != 2 {
		t.Errorf("got %d members, want 2", len(loaded.Members))
	}

	t.Run("unknown member rolls the group back", func(t *testing.T) {
		bad := &models.Group{Name: "Ghost crew", Members: []int64{alice, 2333}}
		err := store.CreateGroup(ctx, bad)
		if !errors.Is(err, storage.ErrMissingRef) {
			t.Fatalf("CreateGroup = %v, want ErrMissingRef", err)
		}
		// The group row must not survive the failed membership insert.
		if bad.ID != 0 {
			if _, err := store.FindGroupWithMembers(ctx, bad.ID); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("orphaned group persisted after rollback")
			}
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		if _, err := store.FindGroupWithMembers(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("FindGroupWithMembers = %v, want ErrNotFound", err)
		}
	})
}

func TestCreateTransactionWithAllocations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	bob := createUser(t, store, "Bob", "bob@example.com")
	group := &models.Group{Name: "Flat", Members: []int64{alice, bob}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	txn := &models.Transaction{
		GroupID:     group.ID,
		PayerID:     alice,
		Total:       money.FromFloat(200),
		SplitType:   models.SplitExact,
		Description: "groceries",
	}
	allocations := []models.Allocation{{PayeeID: bob, Amount: money.FromFloat(60)}}
	if err := store.CreateTransactionWithAllocations(ctx, txn, allocations); err != nil {
		t.Fatalf("CreateTransactionWithAllocations failed: %v", err)
	}
	if txn.ID == 0 {
		t.Error("expected transaction ID to be assigned")
	}

	rows, err := store.QueryTransactionsForUser(ctx, bob, storage.Filter{})
	if err != nil {
		t.Fatalf("QueryTransactionsForUser failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.GroupName != "Flat" || row.PayerName != "Alice" {
		t.Errorf("joined names = (%q, %q), want (Flat, Alice)", row.GroupName, row.PayerName)
	}
	if row.Total != money.FromFloat(200) {
		t.Errorf("Total = %d, want 20000", row.Total)
	}
	if len(row.Allocations) != 1 || row.Allocations[0].PayeeID != bob {
		t.Fatalf("allocations = %+v, want single row for bob", row.Allocations)
	}
}

// A failed allocation write must leave no transaction visible to readers.
func TestTransactionWriteIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	group := &models.Group{Name: "Solo", Members: []int64{alice}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	txn := &models.Transaction{
		GroupID:   group.ID,
		PayerID:   alice,
		Total:     money.FromFloat(100),
		SplitType: models.SplitExact,
	}
	// Payee 2333 does not exist; the FK failure must abort the whole unit.
	allocations := []models.Allocation{{PayeeID: 2333, Amount: money.FromFloat(100)}}
	err := store.CreateTransactionWithAllocations(ctx, txn, allocations)
	if !errors.Is(err, storage.ErrMissingRef) {
		t.Fatalf("CreateTransactionWithAllocations = %v, want ErrMissingRef", err)
	}

	rows, err := store.QueryTransactionsForUser(ctx, alice, storage.Filter{})
	if err != nil {
		t.Fatalf("QueryTransactionsForUser failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows after failed write, want 0", len(rows))
	}
}

func TestQueryTransactionsForUserFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice", "alice@example.com")
	bob := createUser(t, store, "Bob", "bob@example.com")

	flat := &models.Group{Name: "Flat", Members: []int64{alice, bob}}
	trip := &models.Group{Name: "Trip", Members: []int64{alice, bob}}
	for _, g := range []*models.Group{flat, trip} {
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	record := func(groupID int64, createdAt int64) int64 {
		t.Helper()
		txn := &models.Transaction{
			GroupID:   groupID,
			PayerID:   alice,
			Total:     money.FromFloat(100),
			SplitType: models.SplitEqual,
			CreatedAt: createdAt,
		}
		allocations := []models.Allocation{{PayeeID: bob, Amount: money.FromFloat(50)}}
		if err := store.CreateTransactionWithAllocations(ctx, txn, allocations); err != nil {
			t.Fatalf("CreateTransactionWithAllocations failed: %v", err)
		}
		return txn.ID
	}

	day := int64(86400)
	early := record(flat.ID, 1*day)
	mid := record(trip.ID, 2*day)
	late := record(flat.ID, 3*day)

	ids := func(rows []storage.TransactionRow) []int64 {
		out := make([]int64, len(rows))
		for i, r := range rows {
			out[i] = r.ID
		}
		return out
	}

	t.Run("no filter returns all ordered", func(t *testing.T) {
		rows, err := store.QueryTransactionsForUser(ctx, alice, storage.Filter{})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		got := ids(rows)
		want := []int64{early, mid, late}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})

	t.Run("group filter", func(t *testing.T) {
		rows, err := store.QueryTransactionsForUser(ctx, alice, storage.Filter{GroupID: &trip.ID})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(rows) != 1 || rows[0].ID != mid {
			t.Errorf("got %v, want [%d]", ids(rows), mid)
		}
	})

	t.Run("date window", func(t *testing.T) {
		start := time.Unix(2*day, 0)
		end := time.Unix(2*day, 0)
		rows, err := store.QueryTransactionsForUser(ctx, alice, storage.Filter{Start: &start, End: &end})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(rows) != 1 || rows[0].ID != mid {
			t.Errorf("got %v, want [%d]", ids(rows), mid)
		}
	})

	t.Run("non-member sees nothing", func(t *testing.T) {
		carol := createUser(t, store, "Carol", "carol@example.com")
		rows, err := store.QueryTransactionsForUser(ctx, carol, storage.Filter{})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("got %d rows for non-member, want 0", len(rows))
		}
	})
}

