package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
)

type OrderAdminHandler struct {
	db *db.DB
}

func NewOrderAdminHandler(db *db.DB) *OrderAdminHandler {
	return &OrderAdminHandler{db: db}
}

func (h *OrderAdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /myadmin/orders/{$}", h.list)
	mux.HandleFunc("DELETE /myadmin/orders/{id}", h.delete)
	mux.HandleFunc("DELETE /myadmin/orders/{$}", h.deleteAll)
}

func (h *OrderAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	search := r.URL.Query().Get("q")

	orders, err := h.db.ListOrders(r.Context(), search)
	if err != nil {
		l.Error("Failed to fetch orders", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Successful order list fetch", slog.Int("count", len(orders)))
	respondJSON(w, r, http.StatusOK, orders)
}

func (h *OrderAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid order ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrResourceNotFound) {
			l.Info("Order not found", slog.Int("order_id", id))
			w.WriteHeader(http.StatusNotFound)
			return
		}

		l.Error("Failed to delete order", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Successful order deletion", slog.Int("order_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderAdminHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	if err := h.db.DeleteAllOrders(r.Context()); err != nil {
		l.Error("Failed to delete orders", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Deleted all orders")
	w.WriteHeader(http.StatusNoContent)
}
