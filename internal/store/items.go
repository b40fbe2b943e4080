package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/spajza/internal/model"
)

const itemColumns = `item_id, owner_id, name, list_type, is_bought, created_at`

// ListItems returns all of an owner's items in the given list.
//
// The shopping list puts unbought items first, newest first within each
// group. The inventory is sorted alphabetically, case-insensitively.
func ListItems(ctx context.Context, db *sql.DB, ownerID int64, list model.ListType) ([]model.Item, error) {
	order := `name COLLATE NOCASE ASC`
	if list == model.ListToBuy {
		order = `is_bought ASC, created_at DESC`
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM grocery_items
		 WHERE owner_id = ? AND list_type = ? ORDER BY `+order,
		ownerID, list,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ItemID, &item.OwnerID, &item.Name, &item.ListType, &item.IsBought, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem returns an owner's item by id, or nil if no such row exists for
// that owner.
func GetItem(ctx context.Context, db *sql.DB, ownerID int64, itemID string) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM grocery_items
		 WHERE item_id = ? AND owner_id = ?`, itemID, ownerID,
	).Scan(&item.ItemID, &item.OwnerID, &item.Name, &item.ListType, &item.IsBought, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// FindItemByName returns the owner's item whose name matches case-insensitively
// within the given list, or nil if there is none. Exact match only, used for
// duplicate detection.
func FindItemByName(ctx context.Context, db *sql.DB, ownerID int64, list model.ListType, name string) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM grocery_items
		 WHERE owner_id = ? AND list_type = ? AND name = ? COLLATE NOCASE`,
		ownerID, list, name,
	).Scan(&item.ItemID, &item.OwnerID, &item.Name, &item.ListType, &item.IsBought, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding item by name: %w", err)
	}
	return item, nil
}

// CreateItem creates an item in the given list with is_bought=false.
// Returns a DuplicateError if the owner already has an item with the same
// name (case-insensitive) in that list.
func CreateItem(ctx context.Context, db *sql.DB, ownerID int64, list model.ListType, name string) (*model.Item, error) {
	existing, err := FindItemByName(ctx, db, ownerID, list, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateError{Name: name, List: list}
	}

	return insertItem(ctx, db, ownerID, list, name)
}

// insertItem inserts a fresh row. The unique index on
// (owner_id, list_type, name COLLATE NOCASE) backstops the duplicate check
// above, so a concurrent create of the same name surfaces here as a
// DuplicateError rather than a second row.
func insertItem(ctx context.Context, db *sql.DB, ownerID int64, list model.ListType, name string) (*model.Item, error) {
	item := &model.Item{
		ItemID:    uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		ListType:  list,
		IsBought:  false,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO grocery_items (item_id, owner_id, name, list_type, is_bought, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		item.ItemID, item.OwnerID, item.Name, item.ListType, item.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, &DuplicateError{Name: name, List: list}
	}
	if err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	return item, nil
}

// ToggleItem flips an item's is_bought flag and returns the updated item.
func ToggleItem(ctx context.Context, db *sql.DB, ownerID int64, itemID string) (*model.Item, error) {
	item, err := GetItem(ctx, db, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	_, err = db.ExecContext(ctx,
		`UPDATE grocery_items SET is_bought = ? WHERE item_id = ? AND owner_id = ?`,
		!item.IsBought, itemID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling item: %w", err)
	}

	item.IsBought = !item.IsBought
	return item, nil
}

// MoveItem transfers an item to the target list. The move is modeled as
// insert-into-target followed by delete-from-source, in that order, so an
// interruption between the two steps leaves a recoverable duplicate instead
// of losing the item. The new row gets a fresh id and created_at and
// is_bought reset to false.
//
// Returns a DuplicateError if the target list already holds an item with
// the same name. A failure of the trailing delete is logged and swallowed:
// the new item exists, so the move still reports success and the stale
// source row simply remains visible in its old list.
func MoveItem(ctx context.Context, db *sql.DB, ownerID int64, itemID string, target model.ListType) (*model.Item, error) {
	item, err := GetItem(ctx, db, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	existing, err := FindItemByName(ctx, db, ownerID, target, item.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateError{Name: item.Name, List: target}
	}

	moved, err := insertItem(ctx, db, ownerID, target, item.Name)
	if err != nil {
		return nil, err
	}

	// The insert committed, so attempt the cleanup even if the request
	// context has since been cancelled.
	cleanupCtx := context.WithoutCancel(ctx)
	if _, err := db.ExecContext(cleanupCtx,
		`DELETE FROM grocery_items WHERE item_id = ? AND owner_id = ?`,
		itemID, ownerID,
	); err != nil {
		slog.Warn("move: failed to delete source item, duplicate row remains",
			"item", item.Name, "source_id", itemID, "moved_id", moved.ItemID, "error", err)
	}

	return moved, nil
}

// DeleteItem permanently removes an owner's item.
func DeleteItem(ctx context.Context, db *sql.DB, ownerID int64, itemID string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM grocery_items WHERE item_id = ? AND owner_id = ?`,
		itemID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
