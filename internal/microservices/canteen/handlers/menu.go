package handlers

import (
	"net/http"

	"campus-canteen/internal/domain"
	"campus-canteen/internal/microservices/canteen/service"
)

type MenuHandler struct {
	service service.MenuServiceInterface
}

func NewMenuHandler(s service.MenuServiceInterface) *MenuHandler {
	return &MenuHandler{service: s}
}

type menuCategory struct {
	Name  string            `json:"name"`
	Items []domain.MenuItem `json:"items"`
}

// List shows available items grouped by category, in listing order.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context(), true)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"categories": groupByCategory(items),
	})
}

func groupByCategory(items []domain.MenuItem) []menuCategory {
	out := []menuCategory{}
	for _, it := range items {
		if n := len(out); n > 0 && out[n-1].Name == it.Category {
			out[n-1].Items = append(out[n-1].Items, it)
			continue
		}
		out = append(out, menuCategory{Name: it.Category, Items: []domain.MenuItem{it}})
	}
	return out
}
