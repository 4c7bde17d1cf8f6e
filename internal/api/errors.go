package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelservice/internal/reservation"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDomainError maps a typed domain failure onto an HTTP status, keeping
// the domain code in the envelope. Anything that is not a domain error is
// reported as internal without leaking detail.
func WriteDomainError(w http.ResponseWriter, err error) {
	var derr reservation.Error
	if !errors.As(err, &derr) {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	WriteError(w, statusFor(derr.Code), derr.Code, derr.Message)
}

func statusFor(code string) int {
	switch code {
	case "ROOM_NOT_FOUND", "RESERVATION_NOT_FOUND", "GUEST_NOT_FOUND":
		return http.StatusNotFound
	case "INVALID_INTERVAL", "NEGATIVE_COUNT", "INVALID_CHECKOUT_TIME":
		return http.StatusUnprocessableEntity
	case "INVALID_STATUS_CHANGE", "ILLEGAL_CHANGE_OF_DATE", "ROOM_UNAVAILABLE", "ROOM_NOT_VACANT":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
