package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/CHRISTIANARIBAL/guiritan/internal/cart"
	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
)

type CheckoutHandler struct {
	db *db.DB
}

func NewCheckoutHandler(db *db.DB) *CheckoutHandler {
	return &CheckoutHandler{db: db}
}

func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout/{$}", h.checkout)
	mux.HandleFunc("GET /order-confirmation/{id}", h.confirmation)
}

// checkout turns the selected cart lines into an order. Quantities
// come from the session, prices from the catalog; the client chooses
// only which lines to buy.
func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	s := session.GetSession(r)

	if !s.IsAuthenticated() {
		l.Warn("Checkout attempt without login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	selected := r.Form["selected_items"]
	if len(selected) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Please select at least one item to checkout"))
		return
	}

	var lines []models.OrderLine
	var purchased []int

	for _, raw := range selected {
		id, err := strconv.Atoi(raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		quantity := cart.Quantity(s, id)
		if quantity <= 0 {
			continue
		}

		lines = append(lines, models.OrderLine{ProductID: id, Quantity: quantity})
		purchased = append(purchased, id)
	}

	if len(lines) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Selected items are not in the cart"))
		return
	}

	order, err := h.db.CreateOrder(r.Context(), s.Principal().UserID, lines)
	if err != nil {
		l.Error("Failed to create order", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	cart.RemoveAll(s, purchased)

	l.Info("Successful checkout", slog.Int("order_id", order.ID))
	respondJSON(w, r, http.StatusCreated, order)
}

func (h *CheckoutHandler) confirmation(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	s := session.GetSession(r)

	if !s.IsAuthenticated() {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	order, err := h.db.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrResourceNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		l.Error("Failed to fetch order", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// An order is visible only to its buyer.
	if order.UserID != s.Principal().UserID {
		l.Warn("Order access denied", slog.Int("order_id", id))
		w.WriteHeader(http.StatusNotFound)
		return
	}

	l.Info("Successful order fetch", slog.Int("order_id", id))
	respondJSON(w, r, http.StatusOK, order)
}
