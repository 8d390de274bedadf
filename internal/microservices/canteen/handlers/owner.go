package handlers

import (
	"net/http"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/service"
)

type OwnerHandler struct {
	menu      service.MenuServiceInterface
	lifecycle service.LifecycleServiceInterface
}

func NewOwnerHandler(menu service.MenuServiceInterface, lifecycle service.LifecycleServiceInterface) *OwnerHandler {
	return &OwnerHandler{menu: menu, lifecycle: lifecycle}
}

const (
	ownerMenu   = apiPrefix + "/owner/menu"
	ownerOrders = apiPrefix + "/owner/orders"
)

func (h *OwnerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.lifecycle.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *OwnerHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.ListItems(r.Context(), false)
	if err != nil {
		writeError(w, r, err, apiPrefix+"/owner/dashboard")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type addItemRequest struct {
	Name     string    `json:"name"`
	Price    flexPrice `json:"price"`
	Category string    `json:"category"`
}

func (h *OwnerHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	it, err := h.menu.AddItem(r.Context(), req.Name, string(req.Price), req.Category)
	if err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *OwnerHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	it, err := h.menu.ToggleAvailability(r.Context(), id)
	if err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *OwnerHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	var req struct {
		Price flexPrice `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	it, err := h.menu.UpdatePrice(r.Context(), id, string(req.Price))
	if err != nil {
		writeError(w, r, err, ownerMenu)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// ListOrders returns a JSON array so clients can poll it.
func (h *OwnerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.lifecycle.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err, apiPrefix+"/owner/dashboard")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OwnerHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	o, err := h.lifecycle.SetStatus(r.Context(), actorOf(stateFrom(r.Context())), id, req.Status)
	if err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	if o.Status == domain.StatusReceived {
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": o.Status, "deleted": true})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OwnerHandler) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	if err := h.lifecycle.Receive(r.Context(), actorOf(stateFrom(r.Context())), id); err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": domain.StatusReceived, "deleted": true})
}

func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	if err := h.lifecycle.Delete(r.Context(), actorOf(stateFrom(r.Context())), id); err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OwnerHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	entries, err := h.lifecycle.Timeline(r.Context(), id)
	if err != nil {
		writeError(w, r, err, ownerOrders)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": id, "events": entries})
}
