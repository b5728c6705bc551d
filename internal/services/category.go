package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/models"
	"github.com/andryfotsiny/gestion/internal/validation"
)

// CategoryService handles category CRUD. A category with products cannot be
// deleted.
type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService { return &CategoryService{DB: db} }

// Create validates and inserts a new category. A duplicate name surfaces as
// ErrAlreadyExists via the store's structured unique-constraint error.
func (s *CategoryService) Create(ctx context.Context, name string) (uint, error) {
	clean, err := validation.CategoryName(name)
	if err != nil {
		return 0, err
	}
	category := models.Category{Name: clean}
	if err := s.DB.WithContext(ctx).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return category.ID, nil
}

// ListWithCounts returns every category with its product count, by name.
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	var rows []models.CategoryWithCount
	err := s.DB.WithContext(ctx).Table("categories c").
		Select("c.id, c.name, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN products p ON p.category_id = c.id").
		Group("c.id, c.name").
		Order("c.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns one category by id.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Update renames a category. Zero affected rows means the id does not exist.
func (s *CategoryService) Update(ctx context.Context, id uint, name string) error {
	clean, err := validation.CategoryName(name)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", clean)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category with no products attached.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	var products int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
		return err
	}
	if products > 0 {
		return ErrCategoryHasProducts
	}
	res := s.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
