package handlers

import (
	"net/http"

	"campus-canteen/internal/microservices/canteen/service"
)

type Handler struct {
	AuthHandler     *AuthHandler
	MenuHandler     *MenuHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	OrderHandler    *OrderHandler
	OwnerHandler    *OwnerHandler

	sessions *Sessions
}

func New(s *service.Service, sessions *Sessions) *Handler {
	return &Handler{
		AuthHandler:     NewAuthHandler(s.IdentityService, sessions),
		MenuHandler:     NewMenuHandler(s.MenuService),
		CartHandler:     NewCartHandler(s.CartService, sessions),
		CheckoutHandler: NewCheckoutHandler(s.CartService, s.OrderService, sessions),
		OrderHandler:    NewOrderHandler(s.OrderService, s.LifecycleService),
		OwnerHandler:    NewOwnerHandler(s.MenuService, s.LifecycleService),
		sessions:        sessions,
	}
}

// Register mounts every canteen route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	s := h.sessions
	p := apiPrefix

	mux.HandleFunc("POST "+p+"/auth/register", h.AuthHandler.Register)
	mux.HandleFunc("POST "+p+"/auth/login", h.AuthHandler.Login)
	mux.HandleFunc("POST "+p+"/auth/logout", h.AuthHandler.Logout)

	mux.HandleFunc("GET "+p+"/menu", s.Any(h.MenuHandler.List))

	mux.HandleFunc("GET "+p+"/cart", s.User(h.CartHandler.View))
	mux.HandleFunc("POST "+p+"/cart/items", s.User(h.CartHandler.Add))
	mux.HandleFunc("DELETE "+p+"/cart/items/{item_id}", s.User(h.CartHandler.Remove))

	mux.HandleFunc("GET "+p+"/checkout", s.User(h.CheckoutHandler.Summary))
	mux.HandleFunc("POST "+p+"/checkout", s.User(h.CheckoutHandler.Checkout))
	mux.HandleFunc("GET "+p+"/payment/dummy", s.User(h.CheckoutHandler.PaymentDetails))
	mux.HandleFunc("POST "+p+"/payment/dummy", s.User(h.CheckoutHandler.ConfirmPayment))

	mux.HandleFunc("GET "+p+"/orders", s.User(h.OrderHandler.List))
	mux.HandleFunc("GET "+p+"/orders/{id}", s.Any(h.OrderHandler.Get))
	mux.HandleFunc("POST "+p+"/orders/{id}/received", s.User(h.OrderHandler.MarkReceived))

	mux.HandleFunc("GET "+p+"/owner/dashboard", s.Owner(h.OwnerHandler.Dashboard))
	mux.HandleFunc("GET "+p+"/owner/menu", s.Owner(h.OwnerHandler.ListMenu))
	mux.HandleFunc("POST "+p+"/owner/menu", s.Owner(h.OwnerHandler.AddItem))
	mux.HandleFunc("POST "+p+"/owner/menu/{id}/toggle", s.Owner(h.OwnerHandler.ToggleItem))
	mux.HandleFunc("PUT "+p+"/owner/menu/{id}/price", s.Owner(h.OwnerHandler.UpdatePrice))
	mux.HandleFunc("GET "+p+"/owner/orders", s.Owner(h.OwnerHandler.ListOrders))
	mux.HandleFunc("POST "+p+"/owner/orders/{id}/status", s.Owner(h.OwnerHandler.SetStatus))
	mux.HandleFunc("POST "+p+"/owner/orders/{id}/received", s.Owner(h.OwnerHandler.Receive))
	mux.HandleFunc("DELETE "+p+"/owner/orders/{id}", s.Owner(h.OwnerHandler.Delete))
	mux.HandleFunc("GET "+p+"/owner/orders/{id}/timeline", s.Owner(h.OwnerHandler.Timeline))
}
