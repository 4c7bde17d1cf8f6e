package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hotelservice/internal/api"
	"hotelservice/internal/guest"
	"hotelservice/internal/room"
)

// GuestDirectory is the read surface of the guest directory collaborator.
type GuestDirectory interface {
	FindByContact(ctx context.Context, contact string) (*guest.Guest, error)
}

type Handlers struct {
	Service *Service
	Guests  GuestDirectory
}

func parseTimeParam(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err == nil
}

// Availability lists rooms of the requested kind free for the stay interval.
// Query: room_type, bed_type, facing, start, end (RFC 3339).
func (h Handlers) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomType, err := room.ParseType(q.Get("room_type"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	bedType, err := room.ParseBedType(q.Get("bed_type"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	facing, err := room.ParseFacing(q.Get("facing"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	start, ok := parseTimeParam(q.Get("start"))
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "start must be RFC 3339")
		return
	}
	end, ok := parseTimeParam(q.Get("end"))
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "end must be RFC 3339")
		return
	}

	rooms, err := h.Service.CheckAvailability(roomType, bedType, facing, start, end)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": rooms})
}

type createReservationRequest struct {
	Kind       string `json:"kind"` // confirmed | waitlist | walkin
	Contact    string `json:"contact"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	RoomNumber string `json:"room_number"`
}

// Create books a reservation: confirmed, waitlisted, or walk-in.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}
	checkIn, ok := parseTimeParam(req.CheckIn)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "check_in must be RFC 3339")
		return
	}
	checkOut, ok := parseTimeParam(req.CheckOut)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "check_out must be RFC 3339")
		return
	}

	if h.Guests != nil {
		g, err := h.Guests.FindByContact(r.Context(), req.Contact)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "guest lookup failed")
			return
		}
		if g == nil {
			api.WriteError(w, http.StatusNotFound, "GUEST_NOT_FOUND", "no guest registered under that contact")
			return
		}
	}

	var (
		rec any
		err error
	)
	switch req.Kind {
	case "confirmed":
		rec, err = h.Service.BookConfirmed(r.Context(), req.Contact, checkIn, checkOut, req.Adults, req.Children, req.RoomNumber)
	case "waitlist":
		rec, err = h.Service.BookWaitList(r.Context(), req.Contact, checkIn, checkOut, req.Adults, req.Children, req.RoomNumber)
	case "walkin":
		rec, err = h.Service.BookWalkIn(r.Context(), req.Contact, checkIn, checkOut, req.Adults, req.Children, req.RoomNumber)
	default:
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "kind must be confirmed, waitlist or walkin")
		return
	}
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, rec)
}

func reservationCode(r *http.Request) (uuid.UUID, bool) {
	code, err := uuid.Parse(chi.URLParam(r, "code"))
	return code, err == nil
}

// Get returns one reservation from either collection.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	code, ok := reservationCode(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid reservation code")
		return
	}
	rec, err := h.Service.Find(code)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// List returns reservations for a guest contact.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	contact := r.URL.Query().Get("contact")
	if contact == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing contact")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": h.Service.FindByContact(contact)})
}

// Confirm promotes a waitlisted reservation onto a room.
func (h Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	code, ok := reservationCode(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid reservation code")
		return
	}
	var req struct {
		RoomNumber string `json:"room_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}
	rec, err := h.Service.ConfirmWaitlisted(r.Context(), code, req.RoomNumber)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// CheckIn admits the guest; a too-late arrival expires the reservation and
// the response carries the expired record.
func (h Handlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	code, ok := reservationCode(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid reservation code")
		return
	}
	var req struct {
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}
	actual, ok := parseTimeParam(req.Time)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "time must be RFC 3339")
		return
	}
	rec, err := h.Service.CheckIn(r.Context(), code, actual)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// Cancel expires a waitlisted or confirmed reservation.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	code, ok := reservationCode(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid reservation code")
		return
	}
	rec, err := h.Service.Cancel(r.Context(), code)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

type editReservationRequest struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Adults   *int    `json:"adults"`
	Children *int    `json:"children"`
	Contact  *string `json:"contact"`
}

// Patch applies in-place edits; date changes on a confirmed reservation may
// reassign it to another room of the same kind.
func (h Handlers) Patch(w http.ResponseWriter, r *http.Request) {
	code, ok := reservationCode(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid reservation code")
		return
	}
	var req editReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}

	rec, err := h.Service.Find(code)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if req.CheckIn != nil {
		t, ok := parseTimeParam(*req.CheckIn)
		if !ok {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "check_in must be RFC 3339")
			return
		}
		if rec, err = h.Service.EditCheckIn(r.Context(), rec.Code, t); err != nil {
			api.WriteDomainError(w, err)
			return
		}
	}
	if req.CheckOut != nil {
		t, ok := parseTimeParam(*req.CheckOut)
		if !ok {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "check_out must be RFC 3339")
			return
		}
		if rec, err = h.Service.EditCheckOut(r.Context(), rec.Code, t); err != nil {
			api.WriteDomainError(w, err)
			return
		}
	}
	if req.Adults != nil || req.Children != nil {
		adults, children := rec.Adults, rec.Children
		if req.Adults != nil {
			adults = *req.Adults
		}
		if req.Children != nil {
			children = *req.Children
		}
		if rec, err = h.Service.EditGuestCount(r.Context(), rec.Code, adults, children); err != nil {
			api.WriteDomainError(w, err)
			return
		}
	}
	if req.Contact != nil {
		if rec, err = h.Service.EditContact(r.Context(), rec.Code, *req.Contact); err != nil {
			api.WriteDomainError(w, err)
			return
		}
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// CheckOut settles the stay in a room and returns the bill.
func (h Handlers) CheckOut(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	var req struct {
		Time      string `json:"time"`
		Promotion bool   `json:"promotion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}
	actual, ok := parseTimeParam(req.Time)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "time must be RFC 3339")
		return
	}
	bill, err := h.Service.CheckOut(r.Context(), number, actual, req.Promotion)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, bill)
}

// ListRooms returns the whole room pool.
func (h Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": h.Service.Rooms()})
}

// StartMaintenance takes a vacant room out of service.
func (h Handlers) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.MarkMaintenance(r.Context(), chi.URLParam(r, "number")); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StopMaintenance returns a room to the vacant pool.
func (h Handlers) StopMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.EndMaintenance(r.Context(), chi.URLParam(r, "number")); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Occupancy returns vacancy counts per room type.
func (h Handlers) Occupancy(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": h.Service.OccupancyReport()})
}
