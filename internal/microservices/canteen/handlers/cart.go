package handlers

import (
	"net/http"

	"campus-canteen/internal/microservices/canteen/service"
)

type CartHandler struct {
	service  service.CartServiceInterface
	sessions *Sessions
}

func NewCartHandler(s service.CartServiceInterface, sessions *Sessions) *CartHandler {
	return &CartHandler{service: s, sessions: sessions}
}

type addToCartRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity *int  `json:"qty"`
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	view, err := h.service.Snapshot(r.Context(), &st.Cart)
	if err != nil {
		writeError(w, r, err, apiPrefix+"/menu")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Add defaults qty to 1 when omitted.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/menu"
	st := stateFrom(r.Context())
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, back)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := h.service.Add(r.Context(), &st.Cart, req.ItemID, qty); err != nil {
		writeError(w, r, err, back)
		return
	}
	h.saveAndView(w, r, back)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	const back = apiPrefix + "/cart"
	st := stateFrom(r.Context())
	id, err := pathID(r, "item_id")
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	h.service.Remove(&st.Cart, id)
	h.saveAndView(w, r, back)
}

func (h *CartHandler) saveAndView(w http.ResponseWriter, r *http.Request, back string) {
	st := stateFrom(r.Context())
	if err := h.sessions.Save(r.Context(), st); err != nil {
		writeError(w, r, err, back)
		return
	}
	view, err := h.service.Snapshot(r.Context(), &st.Cart)
	if err != nil {
		writeError(w, r, err, back)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
