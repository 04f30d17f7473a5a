package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/acme/inventory-service/app/httpx"
	"github.com/acme/inventory-service/models"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type Category struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ProductResponse always embeds the product's category inline.
type ProductResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	CategoryID  uint     `json:"category_id"`
	Category    Category `json:"category"`
}

type ListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type CreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	CategoryID  uint    `json:"category_id" validate:"required,gt=0"`
}

type UpdateRequest struct {
	Name        *string                `json:"name" validate:"omitnil,min=1,max=200"`
	Description httpx.Nullable[string] `json:"description"`
	CategoryID  *uint                  `json:"category_id" validate:"omitnil,gt=0"`
}

type ProductProvider interface {
	GetByID(id uint) (*models.Product, error)
	List(skip, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	Create(product *models.Product) error
	Update(product *models.Product, patch models.ProductPatch) error
	Delete(product *models.Product) error
}

type ProductHandler struct {
	repo   ProductProvider
	logger *zap.Logger
}

func NewProductHandler(r ProductProvider, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := httpx.Validate(input); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}
	if err := h.repo.Create(product); err != nil {
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			httpx.Error(w, http.StatusBadRequest,
				fmt.Sprintf("Category with id %d does not exist.", input.CategoryID))
		case errors.Is(err, models.ErrDuplicateName):
			httpx.Error(w, http.StatusBadRequest, "Product with this name already exists.")
		default:
			h.logger.Error("create product failed", zap.Error(err))
			httpx.Error(w, http.StatusInternalServerError, "Failed to create product.")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(product))
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found.")
			return
		}
		h.logger.Error("get product failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch product.")
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(product))
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := defaultPage
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			httpx.Error(w, http.StatusBadRequest, "Invalid page parameter.")
			return
		}
		page = v
	}

	pageSize := defaultPageSize
	if s := q.Get("page_size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxPageSize {
			httpx.Error(w, http.StatusBadRequest, "Invalid page_size parameter.")
			return
		}
		pageSize = v
	}

	filters := models.ProductFilters{
		Search: q.Get("search"),
	}
	if s := q.Get("category_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil || v == 0 {
			httpx.Error(w, http.StatusBadRequest, "Invalid category_id parameter.")
			return
		}
		filters.CategoryID = uint(v)
	}

	skip := (page - 1) * pageSize
	items, total, err := h.repo.List(skip, pageSize, filters)
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch products.")
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	response := ListResponse{
		Items:      make([]ProductResponse, len(items)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
	for i, p := range items {
		response.Items[i] = toResponse(&p)
	}
	httpx.JSON(w, http.StatusOK, response)
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found.")
			return
		}
		h.logger.Error("get product failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to update product.")
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

	patch := models.ProductPatch{
		Name:           input.Name,
		Description:    input.Description.Value,
		DescriptionSet: input.Description.Set,
		CategoryID:     input.CategoryID,
	}
	if err := h.repo.Update(product, patch); err != nil {
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			// The FK backstop can also fire when the patch leaves the
			// category untouched but the category was deleted concurrently.
			missing := product.CategoryID
			if input.CategoryID != nil {
				missing = *input.CategoryID
			}
			httpx.Error(w, http.StatusBadRequest,
				fmt.Sprintf("Category with id %d does not exist.", missing))
		case errors.Is(err, models.ErrDuplicateName):
			httpx.Error(w, http.StatusBadRequest, "Product with this name already exists.")
		default:
			h.logger.Error("update product failed", zap.Error(err))
			httpx.Error(w, http.StatusInternalServerError, "Failed to update product.")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(product))
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.Error(w, http.StatusNotFound, "Product not found.")
			return
		}
		h.logger.Error("get product failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete product.")
		return
	}

	if err := h.repo.Delete(product); err != nil {
		h.logger.Error("delete product failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete product.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid product id.")
		return 0, false
	}
	return uint(id), true
}

func toResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Category: Category{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			Description: p.Category.Description,
		},
	}
}
