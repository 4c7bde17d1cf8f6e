package guest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotelservice/internal/api"
)

type Handlers struct {
	Repo *Repository
}

// Get looks a guest up by contact number.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	contact := chi.URLParam(r, "contact")
	g, err := h.Repo.FindByContact(r.Context(), contact)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if g == nil {
		api.WriteError(w, http.StatusNotFound, "GUEST_NOT_FOUND", "no guest registered under that contact")
		return
	}
	api.WriteJSON(w, http.StatusOK, g)
}

// Put registers or updates a guest record.
func (h Handlers) Put(w http.ResponseWriter, r *http.Request) {
	var g Guest
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}
	g.Contact = chi.URLParam(r, "contact")
	if g.Contact == "" || g.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "contact and name are required")
		return
	}
	out, err := h.Repo.Upsert(r.Context(), g)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}
