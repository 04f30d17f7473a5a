package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// ProductFilters narrows List results. Zero values mean "no filter"; when
// both are set they combine with AND.
type ProductFilters struct {
	// Search matches product names containing the term, case-insensitively.
	Search string
	// CategoryID matches products in exactly this category.
	CategoryID uint
}

// ProductPatch carries the fields of a partial product update, with the same
// omitted-vs-null convention as CategoryPatch.
type ProductPatch struct {
	Name           *string
	Description    *string
	DescriptionSet bool
	CategoryID     *uint
}

func (r *ProductsRepository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns one page of products ordered by name, plus the total count of
// rows matching the filters. The count is taken before offset/limit are
// applied, so pagination never affects the reported total. Categories are
// preloaded in one batched lookup rather than per row.
func (r *ProductsRepository) List(skip, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.Model(&Product{})

	if filters.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}
	if filters.CategoryID != 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("name ASC").
		Offset(skip).
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Create inserts the product after verifying its category exists. The check
// and the insert share one transaction; the foreign-key constraint re-checks
// at commit in case the category is deleted concurrently.
func (r *ProductsRepository) Create(product *Product) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.First(&category, product.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		product.Category = category
		return nil
	})
	return r.translate(err)
}

// Update applies the patch and saves. The category is re-validated only when
// the patch actually changes it.
func (r *ProductsRepository) Update(product *Product, patch ProductPatch) error {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.DescriptionSet {
		product.Description = patch.Description
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if patch.CategoryID != nil && *patch.CategoryID != product.CategoryID {
			var category Category
			if err := tx.First(&category, *patch.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}
				return err
			}
			product.CategoryID = *patch.CategoryID
			product.Category = category
		}
		return tx.Omit(clause.Associations).Save(product).Error
	})
	return r.translate(err)
}

func (r *ProductsRepository) Delete(product *Product) error {
	return r.db.Delete(product).Error
}

// translate maps constraint violations the store reports at commit time onto
// the same failure kinds the pre-checks produce.
func (r *ProductsRepository) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrCategoryNotFound
	default:
		return err
	}
}
