package handler

import (
	"log/slog"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
)

type DashboardHandler struct {
	db *db.DB
}

func NewDashboardHandler(db *db.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /myadmin/{$}", h.dashboard)
}

type dashboardResponse struct {
	Products   []models.ProductResponse  `json:"products"`
	Categories []models.CategoryResponse `json:"categories"`
	Orders     []models.OrderResponse    `json:"orders"`
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	products, err := h.db.ListProducts(r.Context())
	if err != nil {
		l.Error("Failed to fetch products", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	categories, err := h.db.ListCategories(r.Context())
	if err != nil {
		l.Error("Failed to fetch categories", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	orders, err := h.db.ListOrders(r.Context(), "")
	if err != nil {
		l.Error("Failed to fetch orders", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Successful dashboard fetch")
	respondJSON(w, r, http.StatusOK, dashboardResponse{
		Products:   products,
		Categories: categories,
		Orders:     orders,
	})
}
