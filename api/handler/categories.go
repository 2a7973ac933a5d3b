package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/models"
)

type CategoryAdminHandler struct {
	db *db.DB
}

func NewCategoryAdminHandler(db *db.DB) *CategoryAdminHandler {
	return &CategoryAdminHandler{db: db}
}

func (h *CategoryAdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /myadmin/categories/add/{$}", h.create)
	mux.HandleFunc("PUT /myadmin/categories/{id}/edit/{$}", h.update)
	mux.HandleFunc("DELETE /myadmin/categories/{id}/delete/{$}", h.delete)
}

func (h *CategoryAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	var categoryRequest models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryRequest); err != nil {
		l.Info("Failed to decode body", slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categoryResponse, err := h.db.CreateCategory(r.Context(), categoryRequest)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNameNotFound):
			l.Info("Missing field; name field required")
			http.Error(w, err.Error(), http.StatusBadRequest)

		case errors.Is(err, db.ErrDuplicateName):
			l.Info("Duplicate category name")
			http.Error(w, err.Error(), http.StatusConflict)

		default:
			l.Error("Failed to create category", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	l.Info("Successful category creation", slog.Int("category_id", categoryResponse.ID))
	respondJSON(w, r, http.StatusCreated, categoryResponse)
}

func (h *CategoryAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid category ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var categoryRequest models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryRequest); err != nil {
		l.Info("Failed to decode body", slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categoryResponse, err := h.db.UpdateCategory(r.Context(), id, categoryRequest)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrResourceNotFound):
			l.Info("Category not found", slog.Int("category_id", id))
			w.WriteHeader(http.StatusNotFound)

		case errors.Is(err, db.ErrNameNotFound):
			l.Info("Missing field; name field required")
			http.Error(w, err.Error(), http.StatusBadRequest)

		default:
			l.Error("Failed to update category", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	l.Info("Successful category update", slog.Int("category_id", id))
	respondJSON(w, r, http.StatusOK, categoryResponse)
}

func (h *CategoryAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	id, err := pathID(r)
	if err != nil {
		l.Info("Invalid category ID", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, db.ErrResourceNotFound):
			l.Info("Category not found", slog.Int("category_id", id))
			w.WriteHeader(http.StatusNotFound)

		case errors.Is(err, db.ErrForeignKeyViolation):
			l.Info("Category still referenced", slog.Int("category_id", id))
			http.Error(w, err.Error(), http.StatusConflict)

		default:
			l.Error("Failed to delete category", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	l.Info("Successful category deletion", slog.Int("category_id", id))
	w.WriteHeader(http.StatusNoContent)
}
