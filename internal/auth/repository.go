package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

// AdminRepository owns admin account persistence.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds a repository tied to the provided GORM DB.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername loads an admin account by its lowercased username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "username = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin account not found")
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Count returns the number of registered admin accounts.
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the admin account.
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}
