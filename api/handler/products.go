package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
	"github.com/patrickmn/go-cache"
)

// ProductAdminHandler is the back-office side of the catalog. It
// shares the listing cache with CatalogHandler so storefront reads
// never serve a stale catalog after an admin write.
type ProductAdminHandler struct {
	db    *db.DB
	cache *cache.Cache
}

func NewProductAdminHandler(db *db.DB, c *cache.Cache) *ProductAdminHandler {
	return &ProductAdminHandler{db: db, cache: c}
}

func (h *ProductAdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /myadmin/products/add/{$}", h.create)
	mux.HandleFunc("PUT /myadmin/products/{id}/edit/{$}", h.update)
	mux.HandleFunc("DELETE /myadmin/products/{id}/delete/{$}", h.delete)
}

func (h *ProductAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	var productRequest models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&productRequest); err != nil {
		l.Info("Failed to decode body", slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	productResponse, err := h.db.CreateProduct(r.Context(), productRequest)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNameNotFound):
			l.Info("Missing field; name field required")
			http.Error(w, err.Error(), http.StatusBadRequest)

		case errors.Is(err, db.ErrForeignKeyViolation):
			l.Info("Invalid category reference", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)

		default:
			l.Error("Failed to create product", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.cache.Delete(productListKey)

	l.Info("Successful product creation", slog.Int("product_id", productResponse.ID))
	respondJSON(w, r, http.StatusCreated, productResponse)
}

func (h *ProductAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid product ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var productRequest models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&productRequest); err != nil {
		l.Info("Failed to decode body", slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	productResponse, err := h.db.UpdateProduct(r.Context(), id, productRequest)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrResourceNotFound):
			l.Info("Product not found", slog.Int("product_id", id))
			w.WriteHeader(http.StatusNotFound)

		case errors.Is(err, db.ErrForeignKeyViolation):
			l.Info("Invalid category reference", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)

		default:
			l.Error("Failed to update product", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.cache.Delete(productListKey)

	l.Info("Successful product update", slog.Int("product_id", id))
	respondJSON(w, r, http.StatusOK, productResponse)
}

func (h *ProductAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid product ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrResourceNotFound) {
			l.Info("Product not found", slog.Int("product_id", id))
			w.WriteHeader(http.StatusNotFound)
			return
		}

		l.Error("Failed to delete product", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.cache.Delete(productListKey)

	l.Info("Successful product deletion", slog.Int("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}
