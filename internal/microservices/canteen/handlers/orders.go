package handlers

import (
	"net/http"

	"campus-canteen/internal/microservices/canteen/service"
)

type OrderHandler struct {
	orders    service.OrderServiceInterface
	lifecycle service.LifecycleServiceInterface
}

func NewOrderHandler(orders service.OrderServiceInterface, lifecycle service.LifecycleServiceInterface) *OrderHandler {
	return &OrderHandler{orders: orders, lifecycle: lifecycle}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListUserOrders(r.Context(), stateFrom(r.Context()).Username)
	if err != nil {
		writeError(w, r, err, apiPrefix+"/menu")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get is the order confirmation and receipt view.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/orders"
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	o, err := h.orders.GetOrder(r.Context(), actorOf(stateFrom(r.Context())), id)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/orders"
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	if err := h.lifecycle.MarkReceived(r.Context(), actorOf(stateFrom(r.Context())), id); err != nil {
		writeError(w, r, err, back)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "Received", "redirect": back})
}
