package reservation

// Error is a typed domain failure. Every core operation returns one of these
// rather than mutating state when its preconditions do not hold; none of them
// is transient, so callers must not retry.
type Error struct {
	Code    string
	Message string
}

func (e Error) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrInvalidInterval     = Error{Code: "INVALID_INTERVAL", Message: "check-in time must be before check-out time"}
	ErrNegativeCount       = Error{Code: "NEGATIVE_COUNT", Message: "adult and child counts must be >= 0"}
	ErrInvalidStatusChange = Error{Code: "INVALID_STATUS_CHANGE", Message: "reservation status does not allow this transition"}
	ErrIllegalChangeOfDate = Error{Code: "ILLEGAL_CHANGE_OF_DATE", Message: "reservation dates can only be edited while waitlisted or confirmed"}
	ErrInvalidCheckOutTime = Error{Code: "INVALID_CHECKOUT_TIME", Message: "check-out time cannot precede check-in time"}
	ErrRoomNotFound        = Error{Code: "ROOM_NOT_FOUND", Message: "no room with that number"}
	ErrReservationNotFound = Error{Code: "RESERVATION_NOT_FOUND", Message: "no reservation with that code"}
)
