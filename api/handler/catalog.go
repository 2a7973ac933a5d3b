package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/patrickmn/go-cache"
)

const productListKey = "products"

type CatalogHandler struct {
	db    *db.DB
	cache *cache.Cache
}

func NewCatalogHandler(db *db.DB, c *cache.Cache) *CatalogHandler {
	return &CatalogHandler{db: db, cache: c}
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /product/{id}", h.detail)
}

// home serves the storefront landing listing. The listing is the
// hottest read in the system and changes only on admin writes, so it
// sits behind a short-lived cache that the admin handlers flush.
func (h *CatalogHandler) home(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	if cached, ok := h.cache.Get(productListKey); ok {
		if products, ok := cached.([]models.ProductResponse); ok {
			respondJSON(w, r, http.StatusOK, products)
			return
		}
	}

	products, err := h.db.ListProducts(r.Context())
	if err != nil {
		l.Error("Failed to fetch products", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.cache.Set(productListKey, products, 1*time.Minute)

	l.Info("Successful product list fetch")
	respondJSON(w, r, http.StatusOK, products)
}

func (h *CatalogHandler) detail(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid product ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	product, err := h.db.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrResourceNotFound) {
			l.Info("Product not found", slog.Int("product_id", id))
			w.WriteHeader(http.StatusNotFound)
			return
		}

		l.Error("Failed to fetch product", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Successful product fetch")
	respondJSON(w, r, http.StatusOK, product)
}
