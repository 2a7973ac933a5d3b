package handler

import (
	"log/slog"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/cart"
	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
)

type CartHandler struct {
	db *db.DB
}

func NewCartHandler(db *db.DB) *CartHandler {
	return &CartHandler{db: db}
}

func (h *CartHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /add-to-cart/{id}", h.add)
	mux.HandleFunc("GET /cart/{$}", h.view)
	mux.HandleFunc("POST /cart/increase/{id}", h.increase)
	mux.HandleFunc("POST /cart/decrease/{id}", h.decrease)
	mux.HandleFunc("POST /remove/{id}", h.remove)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid product ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s := session.GetSession(r)
	cart.Add(s, id)

	l.Info("Added to cart", slog.Int("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// view prices the cart against the catalog at read time. Lines whose
// product has since been deleted are silently dropped from the total.
func (h *CartHandler) view(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	s := session.GetSession(r)

	products, err := h.db.ListProductsByIDs(r.Context(), cart.ProductIDs(s))
	if err != nil {
		l.Error("Failed to fetch cart products", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := models.CartResponse{
		Items: make([]models.CartItemResponse, 0, len(products)),
	}

	for _, product := range products {
		quantity := cart.Quantity(s, product.ID)
		if quantity <= 0 {
			continue
		}

		totalPrice := product.Price * float64(quantity)

		response.Items = append(response.Items, models.CartItemResponse{
			Product:    product,
			Quantity:   quantity,
			TotalPrice: totalPrice,
		})
		response.Total += totalPrice
	}

	l.Info("Successful cart fetch", slog.Int("items", len(response.Items)))
	respondJSON(w, r, http.StatusOK, response)
}

func (h *CartHandler) increase(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, cart.Increase)
}

func (h *CartHandler) decrease(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, cart.Decrease)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, cart.Remove)
}

func (h *CartHandler) adjust(
	w http.ResponseWriter,
	r *http.Request,
	op func(*session.Session, int),
) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid product ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	op(session.GetSession(r), id)

	w.WriteHeader(http.StatusNoContent)
}
