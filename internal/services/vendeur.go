package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/models"
	"github.com/andryfotsiny/gestion/internal/validation"
)

// VendeurService handles vendeurs. They are never hard-deleted, only
// toggled active/inactive, so historical reports keep their names.
type VendeurService struct {
	DB *gorm.DB
}

func NewVendeurService(db *gorm.DB) *VendeurService { return &VendeurService{DB: db} }

// Create validates and inserts a vendeur; the phone number is stored normalized.
func (s *VendeurService) Create(ctx context.Context, in validation.VendeurInput) (uint, error) {
	vin, err := validation.ValidateVendeur(in)
	if err != nil {
		return 0, err
	}
	vendeur := models.Vendeur{Name: vin.Name, Telephone: vin.Telephone, Active: true}
	if err := s.DB.WithContext(ctx).Create(&vendeur).Error; err != nil {
		return 0, err
	}
	return vendeur.ID, nil
}

// List returns vendeurs by name. activeOnly is used by sale-entry pickers;
// reports list everyone.
func (s *VendeurService) List(ctx context.Context, activeOnly bool) ([]models.Vendeur, error) {
	q := s.DB.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var vendeurs []models.Vendeur
	if err := q.Find(&vendeurs).Error; err != nil {
		return nil, err
	}
	return vendeurs, nil
}

// Get returns one vendeur by id.
func (s *VendeurService) Get(ctx context.Context, id uint) (*models.Vendeur, error) {
	var vendeur models.Vendeur
	if err := s.DB.WithContext(ctx).First(&vendeur, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendeurNotFound
		}
		return nil, err
	}
	return &vendeur, nil
}

// Update modifies name and telephone. Zero affected rows means not found.
func (s *VendeurService) Update(ctx context.Context, id uint, in validation.VendeurInput) error {
	vin, err := validation.ValidateVendeur(in)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.Vendeur{}).Where("id = ?", id).Updates(map[string]any{
		"name":      vin.Name,
		"telephone": vin.Telephone,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVendeurNotFound
	}
	return nil
}

// ToggleStatus flips the active flag and returns the new value.
func (s *VendeurService) ToggleStatus(ctx context.Context, id uint) (bool, error) {
	var vendeur models.Vendeur
	if err := s.DB.WithContext(ctx).First(&vendeur, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrVendeurNotFound
		}
		return false, err
	}
	newStatus := !vendeur.Active
	if err := s.DB.WithContext(ctx).Model(&vendeur).Update("active", newStatus).Error; err != nil {
		return false, err
	}
	return newStatus, nil
}
