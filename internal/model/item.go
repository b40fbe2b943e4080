package model

import (
	"fmt"
	"strings"
	"time"
)

// ListType identifies which of the two logical lists an item belongs to.
type ListType string

// The two lists. There are exactly these two; handlers validate inbound
// values with ParseListType so the store never sees anything else.
const (
	ListToBuy ListType = "to_buy"
	ListItems ListType = "items"
)

// ParseListType validates a raw list_type value.
func ParseListType(s string) (ListType, error) {
	switch ListType(s) {
	case ListToBuy, ListItems:
		return ListType(s), nil
	}
	return "", fmt.Errorf("list_type must be %q or %q", ListToBuy, ListItems)
}

// Display returns the user-facing name of a list, used in conflict messages.
func (l ListType) Display() string {
	if l == ListToBuy {
		return "shopping list"
	}
	return "inventory"
}

// Item represents a grocery item row. An item lives in exactly one list;
// moving it between lists creates a new row with a new id.
type Item struct {
	ItemID    string    `json:"item_id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	ListType  ListType  `json:"list_type"`
	IsBought  bool      `json:"is_bought"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxItemNameLength bounds item names; anything longer is almost certainly
// a pasted mistake, not a grocery item.
const MaxItemNameLength = 200

// ValidateItemName checks that an item name is usable.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name required")
	}
	if len(name) > MaxItemNameLength {
		return fmt.Errorf("name must be at most %d characters", MaxItemNameLength)
	}
	return nil
}
