package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/spajza/internal/model"
	"github.com/erazemk/spajza/internal/store"
)

// ItemsHandler handles grocery item endpoints. Every operation is scoped to
// the authenticated user's id from the request claims; an item belonging to
// another user is reported as not found.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Name     string `json:"name"`
	ListType string `json:"list_type"`
}

type moveItemRequest struct {
	ToList string `json:"to_list"`
}

// List handles GET /api/items?list_type={to_buy|items}.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	list, err := model.ParseListType(r.URL.Query().Get("list_type"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, claims.UserID, list)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := model.ValidateItemName(name); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := model.ParseListType(req.ListType)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, claims.UserID, list, name)
	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		slog.Info("duplicate item rejected", "user", claims.Username, "item", name, "list", list)
		jsonError(w, http.StatusConflict, fmt.Sprintf("%q already exists in this list", name))
		return
	}
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	slog.Info("item created", "user", claims.Username, "item", item.Name, "list", item.ListType)
	jsonResponse(w, http.StatusCreated, item)
}

// Toggle handles PATCH /api/items/{id}/toggle.
func (h *ItemsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	itemID := r.PathValue("id")

	item, err := store.ToggleItem(r.Context(), h.DB, claims.UserID, itemID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to toggle item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}

	slog.Info("item toggled", "user", claims.Username, "item", item.Name, "is_bought", item.IsBought)
	jsonResponse(w, http.StatusOK, item)
}

// Move handles PATCH /api/items/{id}/move.
func (h *ItemsHandler) Move(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	itemID := r.PathValue("id")

	var req moveItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := model.ParseListType(req.ToList)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.MoveItem(r.Context(), h.DB, claims.UserID, itemID, target)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		slog.Info("move blocked by duplicate", "user", claims.Username, "item", dup.Name, "target", target)
		jsonError(w, http.StatusConflict, dup.Error())
		return
	}
	if err != nil {
		slog.Error("failed to move item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to move item")
		return
	}

	slog.Info("item moved", "user", claims.Username, "item", item.Name, "to", item.ListType, "new_id", item.ItemID)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	itemID := r.PathValue("id")

	err := store.DeleteItem(r.Context(), h.DB, claims.UserID, itemID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	slog.Info("item deleted", "user", claims.Username, "item_id", itemID)
	w.WriteHeader(http.StatusNoContent)
}
