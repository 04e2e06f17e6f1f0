package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"toolshare-booking-backend/internal/security"
	"toolshare-booking-backend/internal/service"
)

// RouterDeps holds everything the HTTP surface needs.
type RouterDeps struct {
	Auth          service.AuthService
	Bookings      service.BookingService
	Pricing       service.PricingService
	Drafts        service.DraftService
	Checkout      service.CheckoutService
	Notifications service.NotificationService
	Tokens        security.TokenManager
}

// NewRouter builds the full /api/v1 route table. Auth endpoints are
// public; everything else requires a bearer token.
func NewRouter(deps RouterDeps) *mux.Router {
	validate := validator.New()

	authHandler := NewAuthHandler(deps.Auth, validate)
	toolHandler := NewToolHandler(deps.Bookings, deps.Pricing, validate)
	draftHandler := NewDraftHandler(deps.Drafts, validate)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, validate)
	bookingHandler := NewBookingHandler(deps.Bookings)
	noteHandler := NewNotificationHandler(deps.Notifications)

	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware(deps.Tokens))

	protected.HandleFunc("/tools/{toolId:[0-9]+}", toolHandler.GetTool).Methods("GET")
	protected.HandleFunc("/bookings/tool/{toolId:[0-9]+}", toolHandler.ListToolBookings).Methods("GET")
	protected.HandleFunc("/tools/{toolId:[0-9]+}/availability", toolHandler.GetAvailability).Methods("GET")
	protected.HandleFunc("/tools/{toolId:[0-9]+}/quote", toolHandler.Quote).Methods("POST")

	protected.HandleFunc("/tools/{toolId:[0-9]+}/draft", draftHandler.Get).Methods("GET")
	protected.HandleFunc("/tools/{toolId:[0-9]+}/draft", draftHandler.Update).Methods("PUT")
	protected.HandleFunc("/tools/{toolId:[0-9]+}/draft", draftHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/tools/{toolId:[0-9]+}/checkout", checkoutHandler.Submit).Methods("POST")
	protected.HandleFunc("/tools/{toolId:[0-9]+}/checkout", checkoutHandler.State).Methods("GET")
	protected.HandleFunc("/tools/{toolId:[0-9]+}/checkout/challenge", checkoutHandler.CancelChallenge).Methods("DELETE")

	protected.HandleFunc("/bookings", bookingHandler.ListMine).Methods("GET")
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", bookingHandler.Get).Methods("GET")

	protected.HandleFunc("/notifications", noteHandler.List).Methods("GET")
	protected.HandleFunc("/notifications/{notificationId:[0-9]+}/read", noteHandler.MarkAsRead).Methods("POST")

	return router
}
