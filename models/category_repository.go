package models

import (
	"errors"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

// CategoryPatch carries the fields of a partial update. Nil Name leaves the
// stored name untouched; Description is only applied when DescriptionSet is
// true, so an explicit null can clear the column.
type CategoryPatch struct {
	Name           *string
	Description    *string
	DescriptionSet bool
}

func (r *CategoryRepository) GetByID(id uint) (*Category, error) {
	var category Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByName does an exact-match lookup, used for uniqueness pre-checks.
func (r *CategoryRepository) GetByName(name string) (*Category, error) {
	var category Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetAll returns every category ordered by name. The category set is assumed
// small and bounded, so there is no pagination here.
func (r *CategoryRepository) GetAll() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Create(category *Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *CategoryRepository) Update(category *Category, patch CategoryPatch) error {
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.DescriptionSet {
		category.Description = patch.Description
	}
	if err := r.db.Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// Delete removes the category. Products referencing it are removed by the
// store's ON DELETE CASCADE constraint in the same transaction.
func (r *CategoryRepository) Delete(category *Category) error {
	return r.db.Delete(category).Error
}
