package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/models"
	"github.com/andryfotsiny/gestion/internal/validation"
)

// AuthService verifies credentials and manages accounts. Users are never
// hard-deleted, only deactivated.
type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{DB: db} }

// Authenticate returns the user on a credential match against an active
// account. Unknown username and wrong password both yield
// ErrInvalidCredentials; the response never tells them apart.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ? AND active = ?", username, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CreateUser validates all account fields at once and inserts the user with
// a bcrypt hash. The username is stored lower-cased.
func (s *AuthService) CreateUser(ctx context.Context, in validation.UserInput) (uint, error) {
	vin, err := validation.ValidateUser(in)
	if err != nil {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(vin.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	user := models.User{Username: vin.Username, PasswordHash: string(hash), FullName: vin.FullName, Active: true}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return user.ID, nil
}

// ChangePassword re-authenticates with the current password before storing
// the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, newPassword, confirm string) error {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ? AND active = ?", userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	clean, err := validation.Password(newPassword)
	if err != nil {
		return err
	}
	if clean != confirm {
		return &validation.Error{Field: "confirm_password", Message: "Les mots de passe ne correspondent pas"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(clean), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error
}

// SetStatus activates or deactivates an account.
func (s *AuthService) SetStatus(ctx context.Context, userID uint, active bool) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUser returns one account by id.
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all accounts, newest first. Password hashes are not
// stripped here; handlers choose what to expose.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IsActive reports whether a user id maps to an active account; used by the
// session middleware to invalidate sessions of deactivated users.
func (s *AuthService) IsActive(ctx context.Context, userID uint) bool {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ? AND active = ?", userID, true).Limit(1).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}
