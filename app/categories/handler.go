package categories

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/acme/inventory-service/app/httpx"
	"github.com/acme/inventory-service/models"
)

type CategoryResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// UpdateRequest is a merge-patch: only fields present in the payload are
// applied, and description may be explicitly nulled.
type UpdateRequest struct {
	Name        *string                `json:"name" validate:"omitnil,min=1,max=100"`
	Description httpx.Nullable[string] `json:"description" validate:"omitempty,max=255"`
}

type CategoryProvider interface {
	GetByID(id uint) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category, patch models.CategoryPatch) error
	Delete(category *models.Category) error
}

type CategoryHandler struct {
	repo   CategoryProvider
	logger *zap.Logger
}

func NewCategoryHandler(r CategoryProvider, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := httpx.Validate(input); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	// Pre-check keeps the common duplicate case off the constraint-violation
	// path; the unique index still guards against races at commit.
	if _, err := h.repo.GetByName(input.Name); err == nil {
		httpx.Error(w, http.StatusBadRequest, "Category with this name already exists.")
		return
	} else if !errors.Is(err, models.ErrCategoryNotFound) {
		h.logger.Error("category name pre-check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := h.repo.Create(category); err != nil {
		if errors.Is(err, models.ErrDuplicateName) {
			httpx.Error(w, http.StatusBadRequest, "Category with this name already exists.")
			return
		}
		h.logger.Error("create category failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(category))
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			httpx.Error(w, http.StatusNotFound, "Category not found.")
			return
		}
		h.logger.Error("get category failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch category.")
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(category))
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAll()
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch categories.")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(&c)
	}
	httpx.JSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			httpx.Error(w, http.StatusNotFound, "Category not found.")
			return
		}
		h.logger.Error("get category failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to update category.")
		return
	}

	var input UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := httpx.Validate(input); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	// A renamed category must not collide with any other category. The
	// lookup excludes the category itself so renaming to the current name
	// stays a no-op.
	if input.Name != nil {
		if existing, err := h.repo.GetByName(*input.Name); err == nil && existing.ID != category.ID {
			httpx.Error(w, http.StatusBadRequest, "Another category with this name already exists.")
			return
		} else if err != nil && !errors.Is(err, models.ErrCategoryNotFound) {
			h.logger.Error("category name pre-check failed", zap.Error(err))
			httpx.Error(w, http.StatusInternalServerError, "Failed to update category.")
			return
		}
	}

	patch := models.CategoryPatch{
		Name:           input.Name,
		Description:    input.Description.Value,
		DescriptionSet: input.Description.Set,
	}
	if err := h.repo.Update(category, patch); err != nil {
		if errors.Is(err, models.ErrDuplicateName) {
			httpx.Error(w, http.StatusBadRequest, "Another category with this name already exists.")
			return
		}
		h.logger.Error("update category failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to update category.")
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(category))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			httpx.Error(w, http.StatusNotFound, "Category not found.")
			return
		}
		h.logger.Error("get category failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete category.")
		return
	}

	if err := h.repo.Delete(category); err != nil {
		h.logger.Error("delete category failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete category.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) categoryID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid category id.")
		return 0, false
	}
	return uint(id), true
}

func toResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}
