package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/benvon/todo-items/internal/database"
	logpkg "github.com/benvon/todo-items/internal/logger"
	"github.com/benvon/todo-items/internal/models"
	"github.com/benvon/todo-items/internal/request"
	"github.com/benvon/todo-items/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ItemRouteName names the single-item GET route; Location headers are built from it.
const ItemRouteName = "todo_item"

// TodoHandler handles todo item requests
type TodoHandler struct {
	store     database.TodoStore
	logger    *zap.Logger
	itemRoute *mux.Route
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(store database.TodoStore, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{store: store, logger: logger}
}

// RegisterRoutes registers item routes on the given router.
// The router should already carry the collection prefix (e.g. apiRouter.PathPrefix("/items")).
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("", h.CreateItem).Methods(http.MethodPost)
	h.itemRoute = r.HandleFunc("/{id}", h.GetItem).Methods(http.MethodGet).Name(ItemRouteName)
	r.HandleFunc("/{id}", h.UpdateItem).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.DeleteItem).Methods(http.MethodDelete)
}

// ListItems returns every stored item ordered by id
func (h *TodoHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.internalError(w, r, "failed_to_list_todo_items", err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetItem returns a single item
func (h *TodoHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	item, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo item not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "failed_to_get_todo_item", err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// CreateItem stores a new item. Any id in the body is ignored.
func (h *TodoHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeItem(w, r)
	if !ok {
		return
	}
	item.ID = 0
	if !validateItem(w, item) {
		return
	}

	if err := h.store.Create(r.Context(), item); err != nil {
		if errors.Is(err, database.ErrInvalid) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		h.internalError(w, r, "failed_to_create_todo_item", err)
		return
	}

	if location := h.itemLocation(item.ID); location != "" {
		w.Header().Set("Location", location)
	}
	respondJSON(w, http.StatusCreated, item)
}

// UpdateItem replaces every mutable field of an existing item with the request
// body. Fields omitted from the body are reset to their defaults.
func (h *TodoHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}
	item, ok := decodeItem(w, r)
	if !ok {
		return
	}
	if !validateItem(w, item) {
		return
	}
	if item.ID != id {
		respondJSONError(w, http.StatusBadRequest, "Bad Request",
			fmt.Sprintf("Item ID %d does not match path ID %d", item.ID, id))
		return
	}

	ctx := r.Context()
	err := h.store.Replace(ctx, item)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, database.ErrConflict):
		exists, existsErr := h.store.Exists(ctx, id)
		if existsErr != nil {
			h.internalError(w, r, "failed_to_check_todo_item_exists", existsErr)
			return
		}
		if !exists {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Todo item not found")
			return
		}
		h.internalError(w, r, "todo_item_update_conflict", err)
	case errors.Is(err, database.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo item not found")
	case errors.Is(err, database.ErrInvalid):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		h.internalError(w, r, "failed_to_update_todo_item", err)
	}
}

// DeleteItem removes an item
func (h *TodoHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, err := h.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Todo item not found")
			return
		}
		h.internalError(w, r, "failed_to_get_todo_item", err)
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		// Deleted concurrently between the lookup and the delete
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Todo item not found")
			return
		}
		h.internalError(w, r, "failed_to_delete_todo_item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) itemLocation(id int64) string {
	if h.itemRoute == nil {
		return ""
	}
	u, err := h.itemRoute.URL("id", strconv.FormatInt(id, 10))
	if err != nil {
		h.logger.Warn("failed_to_build_item_location", zap.Error(err))
		return ""
	}
	return u.String()
}

// internalError logs err server-side and sends a generic 500
func (h *TodoHandler) internalError(w http.ResponseWriter, r *http.Request, event string, err error) {
	h.logger.Error(event,
		zap.String("request_id", request.RequestIDFromContext(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", logpkg.SanitizePath(r.URL.Path)),
		zap.String("error", logpkg.SanitizeError(err)),
	)
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
}

func parseItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo item ID")
		return 0, false
	}
	return id, true
}

// decodeItem reads the request body over a freshly defaulted item so that
// omitted fields take their default values.
func decodeItem(w http.ResponseWriter, r *http.Request) (*models.TodoItem, bool) {
	item := models.NewTodoItem(time.Now())
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return nil, false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body: "+err.Error())
		return nil, false
	}
	return item, true
}

func validateItem(w http.ResponseWriter, item *models.TodoItem) bool {
	if err := validation.ValidateTodoItem(item); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return false
	}
	return true
}
