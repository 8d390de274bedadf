package handlers

import (
	"fmt"
	"net/http"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/service"
)

type CheckoutHandler struct {
	cart     service.CartServiceInterface
	orders   service.OrderServiceInterface
	sessions *Sessions
}

func NewCheckoutHandler(cart service.CartServiceInterface, orders service.OrderServiceInterface, sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{cart: cart, orders: orders, sessions: sessions}
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	view, err := h.cart.Snapshot(r.Context(), &st.Cart)
	if err != nil {
		writeError(w, r, err, apiPrefix+"/cart")
		return
	}
	if len(view.Items) == 0 {
		writeError(w, r, domain.Validation("cart is empty"), apiPrefix+"/menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":           view.Items,
		"total":           view.Total,
		"payment_methods": []domain.PaymentMethod{domain.PaymentCash, domain.PaymentOnline},
	})
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/cart"
	st := stateFrom(r.Context())
	var req service.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, back)
		return
	}
	res, err := h.orders.Checkout(r.Context(), st, req)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	if err := h.sessions.Save(r.Context(), st); err != nil {
		writeError(w, r, err, back)
		return
	}
	if res.RequiresPayment {
		writeJSON(w, http.StatusAccepted, map[string]any{
			"requires_payment": true,
			"pending_payment":  res.Pending,
			"redirect":         apiPrefix + "/payment/dummy",
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order":    res.Order,
		"redirect": fmt.Sprintf("%s/orders/%d", apiPrefix, res.Order.ID),
	})
}

func (h *CheckoutHandler) PaymentDetails(w http.ResponseWriter, r *http.Request) {
	info, err := h.orders.PaymentDetails(stateFrom(r.Context()))
	if err != nil {
		writeError(w, r, err, apiPrefix+"/checkout")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/checkout"
	st := stateFrom(r.Context())
	o, err := h.orders.ConfirmPayment(r.Context(), st)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	if err := h.sessions.Save(r.Context(), st); err != nil {
		writeError(w, r, err, back)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order":    o,
		"redirect": fmt.Sprintf("%s/orders/%d", apiPrefix, o.ID),
	})
}
