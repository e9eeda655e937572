package service

import (
	"context"
	"testing"

	"github.com/mkhare/splitledger/internal/errdefs"
)

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "Alice", "alice@example.com")
	bob := f.user(t, "Bob", "bob@example.com")

	id, err := f.groups.CreateGroup(ctx, "Flat", []int64{alice, bob})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if id == 0 {
		t.Error("expected a group id")
	}
}

func TestCreateGroupUnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "Alice", "alice@example.com")

	_, err := f.groups.CreateGroup(ctx, "Ghost crew", []int64{alice, 2333})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "One or more user(s) do not exist" {
		t.Errorf("error = %q", err.Error())
	}
	if kind := errdefs.KindOf(err); kind != errdefs.KindBusinessRule {
		t.Errorf("kind = %v, want KindBusinessRule", kind)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.users.CreateUser(ctx, "Alice", "alice@example.com"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := f.users.CreateUser(ctx, "Imposter", "alice@example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := errdefs.KindOf(err); kind != errdefs.KindConflict {
		t.Errorf("kind = %v, want KindConflict", kind)
	}
}
