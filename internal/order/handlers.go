package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hotelservice/internal/api"
	"hotelservice/internal/room"
)

// RoomLookup is satisfied by the booking service; orders are only accepted
// for rooms that exist and are currently occupied.
type RoomLookup interface {
	Room(number string) (room.Room, error)
}

type Handlers struct {
	Repo  *Repository
	Rooms RoomLookup
}

type createOrderRequest struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// Create adds an item to an occupied room's service tab.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	rm, err := h.Rooms.Room(number)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if rm.Status != room.StatusOccupied {
		api.WriteError(w, http.StatusConflict, "ROOM_NOT_OCCUPIED", "room service requires an occupied room")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}
	if req.Item == "" || req.Quantity <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "item and a positive quantity are required")
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || price.IsNegative() {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unit_price must be a non-negative decimal")
		return
	}

	if err := h.Repo.Add(r.Context(), number, req.Item, req.Quantity, price); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Total returns the room's accrued room-service total.
func (h Handlers) Total(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	total, err := h.Repo.AccruedTotal(r.Context(), number)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"room_number": number, "total": total})
}
