package handler

import (
	"net/http"

	"eshop/internal/model"
	"eshop/internal/response"
	"eshop/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// GetAll handles GET /categories.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetByID handles GET /categories/{id}.
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Category")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	category, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Category")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	var req model.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	category, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Category")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeMessage(w, "the category is deleted!")
}
