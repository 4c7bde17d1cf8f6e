package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelservice/internal/api"
	"hotelservice/internal/booking"
	"hotelservice/internal/guest"
	"hotelservice/internal/order"
	"hotelservice/pkg/config"
)

type Dependencies struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Booking *booking.Service
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	guestRepo := guest.NewRepository(deps.DB)
	guestHandlers := guest.Handlers{Repo: guestRepo}
	orderHandlers := order.Handlers{
		Repo:  order.NewRepository(deps.DB),
		Rooms: deps.Booking,
	}
	bookingHandlers := booking.Handlers{
		Service: deps.Booking,
		Guests:  guestRepo,
	}

	r.Route("/v1", func(r chi.Router) {
		if len(deps.Cfg.AllowedOrigins) > 0 {
			r.Use(api.CORSMiddleware(api.CORSOptions{
				AllowedOrigins: deps.Cfg.AllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAgeSeconds:  600,
			}))
		}

		r.Get("/rooms", bookingHandlers.ListRooms)
		r.Get("/rooms/availability", bookingHandlers.Availability)
		r.Post("/rooms/{number}/check-out", bookingHandlers.CheckOut)
		r.Post("/rooms/{number}/maintenance", bookingHandlers.StartMaintenance)
		r.Delete("/rooms/{number}/maintenance", bookingHandlers.StopMaintenance)
		r.Post("/rooms/{number}/orders", orderHandlers.Create)
		r.Get("/rooms/{number}/orders/total", orderHandlers.Total)

		r.Post("/reservations", bookingHandlers.Create)
		r.Get("/reservations", bookingHandlers.List)
		r.Get("/reservations/{code}", bookingHandlers.Get)
		r.Patch("/reservations/{code}", bookingHandlers.Patch)
		r.Post("/reservations/{code}/confirm", bookingHandlers.Confirm)
		r.Post("/reservations/{code}/check-in", bookingHandlers.CheckIn)
		r.Post("/reservations/{code}/cancel", bookingHandlers.Cancel)

		r.Get("/guests/{contact}", guestHandlers.Get)
		r.Put("/guests/{contact}", guestHandlers.Put)

		r.Get("/reports/occupancy", bookingHandlers.Occupancy)
	})

	return r
}
