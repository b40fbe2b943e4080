package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/spajza/internal/db"
	"github.com/erazemk/spajza/internal/model"
)

// newOwner creates a user to own items (grocery_items has a foreign key on users).
func newOwner(t *testing.T, database *sql.DB, username string) int64 {
	t.Helper()
	u, err := CreateUser(context.Background(), database, username, "irrelevant-hash")
	if err != nil {
		t.Fatalf("creating owner %q: %v", username, err)
	}
	return u.ID
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	item, err := CreateItem(ctx, database, owner, model.ListToBuy, "Milk")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Milk" {
		t.Errorf("expected name 'Milk', got %q", item.Name)
	}
	if item.IsBought {
		t.Error("expected new item to be unbought")
	}
	if item.ItemID == "" {
		t.Error("expected non-empty item id")
	}

	got, err := GetItem(ctx, database, owner, item.ItemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.Name != "Milk" || got.ListType != model.ListToBuy {
		t.Errorf("unexpected item from GetItem: %+v", got)
	}
}

func TestCreateDuplicateRejectedCaseInsensitive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	if _, err := CreateItem(ctx, database, owner, model.ListItems, "Milk"); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, err := CreateItem(ctx, database, owner, model.ListItems, "milk")
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError for same name in same list, got %v", err)
	}

	// Same name in the other list is fine.
	if _, err := CreateItem(ctx, database, owner, model.ListToBuy, "milk"); err != nil {
		t.Errorf("expected create in other list to succeed, got %v", err)
	}
}

func TestUniqueIndexBackstopsDuplicateCheck(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	if _, err := CreateItem(ctx, database, owner, model.ListItems, "Eggs"); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Bypass the application-level check, as a concurrent request would.
	_, err := insertItem(ctx, database, owner, model.ListItems, "EGGS")
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError from unique index, got %v", err)
	}
}

func TestToggleItemInvolution(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	item, _ := CreateItem(ctx, database, owner, model.ListToBuy, "Bread")

	once, err := ToggleItem(ctx, database, owner, item.ItemID)
	if err != nil {
		t.Fatalf("first ToggleItem: %v", err)
	}
	if !once.IsBought {
		t.Error("expected is_bought=true after first toggle")
	}

	twice, err := ToggleItem(ctx, database, owner, item.ItemID)
	if err != nil {
		t.Fatalf("second ToggleItem: %v", err)
	}
	if twice.IsBought {
		t.Error("expected is_bought=false after second toggle")
	}
}

func TestToggleMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	_, err := ToggleItem(ctx, database, owner, "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMoveItemCreatesFreshRow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	item, _ := CreateItem(ctx, database, owner, model.ListToBuy, "Bread")
	ToggleItem(ctx, database, owner, item.ItemID) // mark bought before the move

	moved, err := MoveItem(ctx, database, owner, item.ItemID, model.ListItems)
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}

	if moved.ItemID == item.ItemID {
		t.Error("expected the moved item to get a new id")
	}
	if moved.ListType != model.ListItems {
		t.Errorf("expected list 'items', got %q", moved.ListType)
	}
	if moved.IsBought {
		t.Error("expected is_bought reset to false after move")
	}

	// The original row is gone.
	old, err := GetItem(ctx, database, owner, item.ItemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if old != nil {
		t.Error("expected source row to be deleted after move")
	}
}

func TestMoveItemDuplicateInTarget(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	CreateItem(ctx, database, owner, model.ListItems, "Eggs")
	src, _ := CreateItem(ctx, database, owner, model.ListToBuy, "eggs")

	_, err := MoveItem(ctx, database, owner, src.ItemID, model.ListItems)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.List != model.ListItems {
		t.Errorf("expected conflict to name the target list, got %q", dup.List)
	}

	// The source item is unchanged and still in its original list.
	got, err := GetItem(ctx, database, owner, src.ItemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.ListType != model.ListToBuy {
		t.Errorf("expected source item intact in to_buy, got %+v", got)
	}
}

func TestMoveItemSameListConflictsWithItself(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	item, _ := CreateItem(ctx, database, owner, model.ListToBuy, "Butter")

	// No same-list short-circuit: the general duplicate check finds the
	// item itself in the target list.
	_, err := MoveItem(ctx, database, owner, item.ItemID, model.ListToBuy)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Errorf("expected DuplicateError for same-list move, got %v", err)
	}
}

func TestListToBuyOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	// (is_bought, created_at) = (false, t1), (true, t2), (false, t3), t1<t2<t3.
	first, _ := CreateItem(ctx, database, owner, model.ListToBuy, "First")
	time.Sleep(2 * time.Millisecond)
	second, _ := CreateItem(ctx, database, owner, model.ListToBuy, "Second")
	time.Sleep(2 * time.Millisecond)
	third, _ := CreateItem(ctx, database, owner, model.ListToBuy, "Third")

	if _, err := ToggleItem(ctx, database, owner, second.ItemID); err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}

	items, err := ListItems(ctx, database, owner, model.ListToBuy)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// Unbought first, newest first within each group: Third, First, Second.
	want := []string{third.ItemID, first.ItemID, second.ItemID}
	for i, id := range want {
		if items[i].ItemID != id {
			t.Errorf("position %d: expected id %q, got %q (%s)",
				i, id, items[i].ItemID, items[i].Name)
		}
	}
}

func TestListItemsAlphabetical(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	CreateItem(ctx, database, owner, model.ListItems, "banana")
	CreateItem(ctx, database, owner, model.ListItems, "Apple")
	CreateItem(ctx, database, owner, model.ListItems, "cherry")

	items, err := ListItems(ctx, database, owner, model.ListItems)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}

	want := []string{"Apple", "banana", "cherry"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, items[i].Name)
		}
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newOwner(t, database, "ana")

	item, _ := CreateItem(ctx, database, owner, model.ListToBuy, "Milk")

	if err := DeleteItem(ctx, database, owner, item.ItemID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if err := DeleteItem(ctx, database, owner, item.ItemID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana := newOwner(t, database, "ana")
	bor := newOwner(t, database, "bor")

	item, _ := CreateItem(ctx, database, ana, model.ListToBuy, "Milk")

	// Another owner cannot see, toggle, move, or delete the item; every
	// operation reports not-found, never a distinct forbidden.
	got, err := GetItem(ctx, database, bor, item.ItemID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Error("expected foreign item to be invisible")
	}

	if _, err := ToggleItem(ctx, database, bor, item.ItemID); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle: expected ErrNotFound, got %v", err)
	}
	if _, err := MoveItem(ctx, database, bor, item.ItemID, model.ListItems); !errors.Is(err, ErrNotFound) {
		t.Errorf("move: expected ErrNotFound, got %v", err)
	}
	if err := DeleteItem(ctx, database, bor, item.ItemID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}

	// Owners don't share the duplicate namespace either.
	if _, err := CreateItem(ctx, database, bor, model.ListToBuy, "Milk"); err != nil {
		t.Errorf("expected other owner to create same name, got %v", err)
	}
}
